package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/router"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ginOnce sync.Once

type testSite struct {
	db      *gorm.DB
	handler http.Handler
	author  db.User
}

func setupSite(t *testing.T) *testSite {
	t.Helper()

	ginOnce.Do(func() {
		gin.SetMode(gin.TestMode)
	})

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hashed, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	author := db.User{Username: "tester", Password: string(hashed)}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return &testSite{db: gdb, handler: router.SetupRouter(gdb, "test-secret", "Test Blog"), author: author}
}

func (s *testSite) do(method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testSite) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rr := s.do(http.MethodPost, "/accounts/login/", url.Values{"username": {"tester"}, "password": {"pw"}}, nil)
	if rr.Code != http.StatusFound {
		t.Fatalf("login failed with status %d", rr.Code)
	}
	return rr.Result().Cookies()
}

func (s *testSite) seedPost(t *testing.T, title string, publishedAt *time.Time) db.Post {
	t.Helper()
	post := db.Post{
		AuthorID:    s.author.ID,
		Title:       title,
		Text:        "body of " + title,
		CreateDate:  time.Now().UTC().Add(-time.Hour),
		PublishDate: publishedAt,
	}
	if err := s.db.Omit("Author", "Comments").Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func (s *testSite) seedComment(t *testing.T, postID uint, text string, approved bool) db.Comment {
	t.Helper()
	comment := db.Comment{PostID: postID, Author: "Bob", Text: text, CreateDate: time.Now().UTC()}
	if err := s.db.Create(&comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if approved {
		if err := s.db.Model(&comment).Update("is_approved", true).Error; err != nil {
			t.Fatalf("failed to approve comment: %v", err)
		}
	}
	return comment
}

func TestShowPostListExcludesDraftsAndFuturePosts(t *testing.T) {
	site := setupSite(t)

	past := time.Now().UTC().Add(-time.Minute)
	future := time.Now().UTC().Add(time.Hour)
	site.seedPost(t, "Published Post", &past)
	site.seedPost(t, "Draft Post", nil)
	site.seedPost(t, "Scheduled Post", &future)

	rr := site.do(http.MethodGet, "/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "Published Post") {
		t.Fatal("expected response to include published post title")
	}
	if strings.Contains(body, "Draft Post") {
		t.Fatal("draft post should not be rendered on the post list")
	}
	if strings.Contains(body, "Scheduled Post") {
		t.Fatal("future-dated post should not be rendered on the post list")
	}
}

func TestShowPostListOrdersByPublishDate(t *testing.T) {
	site := setupSite(t)

	older := time.Now().UTC().Add(-2 * time.Hour)
	newer := time.Now().UTC().Add(-time.Hour)
	site.seedPost(t, "Newer Post", &newer)
	site.seedPost(t, "Older Post", &older)

	body := site.do(http.MethodGet, "/", nil, nil).Body.String()
	if strings.Index(body, "Older Post") > strings.Index(body, "Newer Post") {
		t.Fatal("expected posts in ascending publish date order")
	}
}

func TestShowPostDetailNotFound(t *testing.T) {
	site := setupSite(t)

	for _, target := range []string{"/post/999/", "/post/abc/", "/post/0/"} {
		rr := site.do(http.MethodGet, target, nil, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "No post found") {
			t.Fatalf("%s: expected the not found page", target)
		}
	}
}

func TestShowPostDetailRendersMarkdownSafely(t *testing.T) {
	site := setupSite(t)

	post := db.Post{
		AuthorID:   site.author.ID,
		Title:      "Markdown",
		Text:       "**bold** <script>alert(1)</script>",
		CreateDate: time.Now().UTC(),
	}
	if err := site.db.Omit("Author", "Comments").Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	body := site.do(http.MethodGet, fmt.Sprintf("/post/%d/", post.ID), nil, nil).Body.String()
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Fatal("expected markdown to be rendered")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatal("expected script tags to be sanitized")
	}
}

func TestShowPostDetailCommentVisibility(t *testing.T) {
	site := setupSite(t)

	now := time.Now().UTC().Add(-time.Minute)
	post := site.seedPost(t, "Discussed", &now)
	site.seedComment(t, post.ID, "approved remark", true)
	site.seedComment(t, post.ID, "pending remark", false)

	target := fmt.Sprintf("/post/%d/", post.ID)

	anonymous := site.do(http.MethodGet, target, nil, nil).Body.String()
	if !strings.Contains(anonymous, "approved remark") {
		t.Fatal("anonymous readers should see approved comments")
	}
	if strings.Contains(anonymous, "pending remark") {
		t.Fatal("anonymous readers must not see unapproved comments")
	}

	moderator := site.do(http.MethodGet, target, nil, site.login(t)).Body.String()
	if !strings.Contains(moderator, "pending remark") {
		t.Fatal("authenticated users should see unapproved comments")
	}
	if !strings.Contains(moderator, "/comment/approve/") {
		t.Fatal("authenticated users should get approve controls")
	}
}

func TestShowAboutFallsBackWithoutPage(t *testing.T) {
	site := setupSite(t)

	rr := site.do(http.MethodGet, "/about/", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "A small blog") {
		t.Fatal("expected fallback about content")
	}
}
