package router

import (
	"fmt"
	"html/template"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/handler"
	"github.com/quillblog/web"
	"gorm.io/gorm"
)

const sessionName = "quillblog_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret, siteName string) *gin.Engine {
	r := gin.Default()
	r.Use(handler.RequestID())

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 14 * 24 * 60 * 60})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载模板并添加自定义函数
	tmpl, err := web.Templates(template.FuncMap{
		"formatDate": formatDate,
		"timeAgo": func(t time.Time) string {
			return formatRelativeTime(time.Now(), t)
		},
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
	r.SetHTMLTemplate(tmpl)

	api := handler.NewAPI(gdb, siteName)

	r.NoRoute(api.NotFound)

	r.GET("/", api.ShowPostList)
	r.GET("/about/", api.ShowAbout)
	r.GET("/post/:id/", api.ShowPostDetail)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", api.ShowLoginPage)
		accounts.POST("/login/", api.Login)
		accounts.GET("/logout/", api.Logout)
		accounts.POST("/logout/", api.Logout)
	}

	// 需要登录的路由
	auth := r.Group("")
	auth.Use(api.AuthRequired())
	{
		auth.GET("/post/new/", api.ShowNewPostForm)
		auth.POST("/post/new/", api.CreatePost)
		auth.GET("/drafts/", api.ShowDrafts)
		auth.GET("/post/:id/edit/", api.ShowEditPostForm)
		auth.POST("/post/:id/edit/", api.UpdatePost)
		auth.GET("/post/:id/remove/", api.ConfirmDeletePost)
		auth.POST("/post/:id/remove/", api.DeletePost)
		auth.GET("/post/:id/publish/", api.PublishPost)
		auth.POST("/post/:id/publish/", api.PublishPost)

		// 在 /post/:id/comment/ 下，:id 指文章；approve/remove 子路由中 :id 指评论
		auth.GET("/post/:id/comment/", api.ShowCommentForm)
		auth.POST("/post/:id/comment/", api.AddComment)
		auth.GET("/post/:id/comment/approve/", api.ApproveComment)
		auth.GET("/post/:id/comment/remove/", api.RemoveComment)

		auth.GET("/about/edit/", api.ShowAboutEditor)
		auth.POST("/about/edit/", api.UpdateAboutPage)
	}

	return r
}

func formatDate(value interface{}) string {
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.In(time.Local).Format("Jan 2, 2006, 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	default:
		return ""
	}
}

func formatRelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}

	diff := now.Sub(t)
	if diff < time.Minute {
		return "just now"
	}

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff/(24*time.Hour)), "day")
	case diff < 365*24*time.Hour:
		return plural(int(diff/(30*24*time.Hour)), "month")
	default:
		return plural(int(diff/(365*24*time.Hour)), "year")
	}
}
