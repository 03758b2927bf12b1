package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
)

// ShowCommentForm renders the comment form for a post.
func (a *API) ShowCommentForm(c *gin.Context) {
	post, ok := a.commentTarget(c)
	if !ok {
		return
	}
	a.renderCommentForm(c, http.StatusOK, post, service.CommentInput{}, nil)
}

// AddComment stores an unapproved comment and returns to the post.
func (a *API) AddComment(c *gin.Context) {
	post, ok := a.commentTarget(c)
	if !ok {
		return
	}

	var form service.CommentInput
	if err := c.ShouldBind(&form); err != nil {
		a.renderCommentForm(c, http.StatusBadRequest, post, form, nil)
		return
	}

	if _, err := a.comments.Add(post.ID, form); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			a.renderCommentForm(c, http.StatusOK, post, form, verr.Fields)
			return
		}
		a.handlePostError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(post.ID))
}

// ApproveComment marks the comment identified by :id as approved.
func (a *API) ApproveComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No comment found matching the query.")
		return
	}

	comment, err := a.comments.Approve(id)
	if err != nil {
		a.handleCommentError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(comment.PostID))
}

// RemoveComment deletes the comment identified by :id.
func (a *API) RemoveComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No comment found matching the query.")
		return
	}

	postID, err := a.comments.Remove(id)
	if err != nil {
		a.handleCommentError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postURL(postID))
}

func (a *API) commentTarget(c *gin.Context) (*db.Post, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.notFound(c, "No post found matching the query.")
		return nil, false
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.handlePostError(c, err)
		return nil, false
	}
	return post, true
}

func (a *API) renderCommentForm(c *gin.Context, status int, post *db.Post, form service.CommentInput, fieldErrors map[string]string) {
	a.renderHTML(c, status, "comment_form.html", gin.H{
		"title":  "New comment",
		"post":   post,
		"form":   form,
		"errors": fieldErrors,
	})
}

func (a *API) handleCommentError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCommentNotFound) {
		a.notFound(c, "No comment found matching the query.")
		return
	}
	a.serverError(c, err)
}
