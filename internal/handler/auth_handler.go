package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
)

const (
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/accounts/login/"

	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Log in",
		"next":  safeNext(c.Query("next")),
	})
}

// Login 校验用户名与密码，成功后写入会话并跳转到 next。
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	user, err := a.users.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			a.serverError(c, err)
			return
		}
		a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
			"title":    "Log in",
			"error":    "Please enter a correct username and password.",
			"username": username,
			"next":     next,
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		a.serverError(c, err)
		return
	}

	c.Redirect(http.StatusFound, next)
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.Redirect(http.StatusFound, "/")
}

// AuthRequired redirects requests without a live session to the login page, remembering where they were headed.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, ok, err := a.sessionUser(c)
		if err != nil {
			a.serverError(c, err)
			c.Abort()
			return
		}
		if !ok {
			a.redirectToLogin(c)
			return
		}
		c.Next()
	}
}

// sessionUser resolves the session's user id against the users table.
// A session pointing at a deleted account is cleared.
func (a *API) sessionUser(c *gin.Context) (*db.User, bool, error) {
	id, ok := currentUserID(c)
	if !ok {
		return nil, false, nil
	}

	user, err := a.users.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			clearSession(c)
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

func (a *API) redirectToLogin(c *gin.Context) {
	clearSession(c)
	c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	c.Abort()
}

func clearSession(c *gin.Context) {
	session := sessions.Default(c)
	if session.Get(sessionUserIDKey) == nil {
		return
	}
	session.Clear()
	if err := session.Save(); err != nil {
		c.Error(err)
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	switch v := sessions.Default(c).Get(sessionUserIDKey).(type) {
	case uint:
		return v, v != 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}

func currentUsername(c *gin.Context) string {
	if _, ok := currentUserID(c); !ok {
		return ""
	}
	name, _ := sessions.Default(c).Get(sessionUsernameKey).(string)
	return name
}

// safeNext only allows local absolute paths so the login form cannot redirect off-site.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
