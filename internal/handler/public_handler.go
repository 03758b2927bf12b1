package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const aboutFallback = `<p>A small blog about whatever its authors are thinking about.</p>`

// ShowPostList renders every published post, oldest publication first.
func (a *API) ShowPostList(c *gin.Context) {
	posts, err := a.posts.ListPublished()
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title": "Posts",
		"posts": posts,
	})
}

// ShowPostDetail renders a post with markdown content. Anonymous readers only see approved comments.
func (a *API) ShowPostDetail(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.notFound(c, "No post found matching the query.")
			return
		}
		a.serverError(c, err)
		return
	}

	htmlContent, err := renderMarkdown(post.Text)
	if err != nil {
		a.serverError(c, err)
		return
	}

	_, loggedIn, err := a.sessionUser(c)
	if err != nil {
		a.serverError(c, err)
		return
	}

	comments := post.Comments
	if !loggedIn {
		comments, err = a.comments.ListForPost(post.ID, true)
		if err != nil {
			a.serverError(c, err)
			return
		}
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":     post.Title,
		"post":      post,
		"published": post.IsPublished(time.Now()),
		"content":   htmlContent,
		"comments":  comments,
	})
}

// ShowAbout renders the about page, falling back to a built-in blurb.
func (a *API) ShowAbout(c *gin.Context) {
	page, err := a.pages.GetBySlug(db.PageSlugAbout)
	if err != nil {
		if !errors.Is(err, service.ErrPageNotFound) {
			c.Error(err)
		}
		a.renderHTML(c, http.StatusOK, "about.html", gin.H{
			"title":     "About",
			"pageTitle": "About",
			"content":   template.HTML(aboutFallback),
		})
		return
	}

	htmlContent, err := renderMarkdown(page.Content)
	if err != nil {
		htmlContent = template.HTML(aboutFallback)
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":     page.Title,
		"pageTitle": page.Title,
		"content":   htmlContent,
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
