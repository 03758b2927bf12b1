package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
)

// ShowAboutEditor renders the editor for the about page.
func (a *API) ShowAboutEditor(c *gin.Context) {
	page, err := a.pages.GetBySlug(db.PageSlugAbout)
	if err != nil && !errors.Is(err, service.ErrPageNotFound) {
		a.serverError(c, err)
		return
	}

	data := gin.H{"title": "Edit about page", "pageTitle": "About"}
	if page != nil {
		data["pageTitle"] = page.Title
		data["pageContent"] = page.Content
	}
	a.renderHTML(c, http.StatusOK, "about_form.html", data)
}

// UpdateAboutPage saves the markdown content for the about page.
func (a *API) UpdateAboutPage(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	if _, err := a.pages.SaveAboutPage(title, content); err != nil {
		if errors.Is(err, service.ErrPageContentMissing) {
			a.renderHTML(c, http.StatusOK, "about_form.html", gin.H{
				"title":       "Edit about page",
				"error":       "Please enter some content for the about page.",
				"pageTitle":   title,
				"pageContent": content,
			})
			return
		}
		a.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/about/")
}
