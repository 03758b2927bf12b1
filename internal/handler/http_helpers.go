package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader     = "X-Request-ID"
	requestIDContextKey = "__request_id"
)

// RequestID tags every request with an id, reusing a caller supplied X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func (a *API) notFound(c *gin.Context, message string) {
	a.renderHTML(c, http.StatusNotFound, "404.html", gin.H{
		"title":   "Not found",
		"message": message,
	})
	c.Abort()
}

func (a *API) serverError(c *gin.Context, err error) {
	c.Error(err)
	log.Printf("request %s %s %s failed: %v", RequestIDFrom(c), c.Request.Method, c.Request.URL.Path, err)
	a.renderHTML(c, http.StatusInternalServerError, "500.html", gin.H{
		"title": "Error",
	})
	c.Abort()
}

func postURL(id uint) string {
	return fmt.Sprintf("/post/%d/", id)
}
