package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	posts    *service.PostService
	comments *service.CommentService
	users    *service.UserService
	pages    *service.PageService
	siteName string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, siteName string) *API {
	name := strings.TrimSpace(siteName)
	if name == "" {
		name = "Quill"
	}

	return &API{
		posts:    service.NewPostService(db),
		comments: service.NewCommentService(db),
		users:    service.NewUserService(db),
		pages:    service.NewPageService(db),
		siteName: name,
	}
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.siteName
	}
	if _, exists := payload["currentUser"]; !exists {
		payload["currentUser"] = currentUsername(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["requestID"]; !exists {
		payload["requestID"] = RequestIDFrom(c)
	}

	c.HTML(status, template, payload)
}

// NotFound renders the 404 page for unmatched routes.
func (a *API) NotFound(c *gin.Context) {
	a.notFound(c, "")
}
