package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
)

// ShowNewPostForm 渲染新建文章表单
func (a *API) ShowNewPostForm(c *gin.Context) {
	a.renderPostForm(c, http.StatusOK, "New post", "/post/new/", service.PostInput{}, nil)
}

// CreatePost 创建草稿并跳转到详情页
func (a *API) CreatePost(c *gin.Context) {
	var form service.PostInput
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, "New post", "/post/new/", form, nil)
		return
	}

	authorID, _ := currentUserID(c)
	form.AuthorID = authorID

	post, err := a.posts.Create(form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			a.renderPostForm(c, http.StatusOK, "New post", "/post/new/", form, verr.Fields)
			return
		}
		if errors.Is(err, service.ErrAuthorNotFound) || errors.Is(err, service.ErrAuthorRequired) {
			a.redirectToLogin(c)
			return
		}
		a.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

// ShowEditPostForm 渲染文章编辑表单
func (a *API) ShowEditPostForm(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	form := service.PostInput{Title: post.Title, Text: post.Text}
	a.renderPostForm(c, http.StatusOK, "Edit post", c.Request.URL.Path, form, nil)
}

// UpdatePost 保存文章修改
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	var form service.PostInput
	if err := c.ShouldBind(&form); err != nil {
		a.renderPostForm(c, http.StatusBadRequest, "Edit post", c.Request.URL.Path, form, nil)
		return
	}

	post, err := a.posts.Update(id, form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			a.renderPostForm(c, http.StatusOK, "Edit post", c.Request.URL.Path, form, verr.Fields)
			return
		}
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

// ShowDrafts 列出所有未发布的文章
func (a *API) ShowDrafts(c *gin.Context) {
	posts, err := a.posts.ListDrafts()
	if err != nil {
		a.serverError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_draft_list.html", gin.H{
		"title": "Drafts",
		"posts": posts,
	})
}

// ConfirmDeletePost 渲染删除确认页
func (a *API) ConfirmDeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_confirm_delete.html", gin.H{
		"title": "Delete post",
		"post":  post,
	})
}

// DeletePost 删除文章及其评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// PublishPost 发布文章
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return
	}

	post, err := a.posts.Publish(id)
	if err != nil {
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

func (a *API) renderPostForm(c *gin.Context, status int, title, action string, form service.PostInput, fieldErrors map[string]string) {
	a.renderHTML(c, status, "post_form.html", gin.H{
		"title":  title,
		"action": action,
		"form":   form,
		"errors": fieldErrors,
	})
}

func (a *API) handlePostError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPostNotFound) {
		a.notFound(c, "No post found matching the query.")
		return
	}
	a.serverError(c, err)
}
