package handler_test

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/quillblog/internal/db"
)

func countComments(t *testing.T, site *testSite) int64 {
	t.Helper()
	var count int64
	if err := site.db.Model(&db.Comment{}).Count(&count).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	return count
}

func TestAddCommentRequiresLogin(t *testing.T) {
	site := setupSite(t)
	post := site.seedPost(t, "Open", nil)

	rr := site.do(http.MethodPost, fmt.Sprintf("/post/%d/comment/", post.ID), url.Values{"author": {"Bob"}, "text": {"hi"}}, nil)
	if rr.Code != http.StatusFound || !strings.HasPrefix(rr.Header().Get("Location"), "/accounts/login/") {
		t.Fatalf("expected redirect to login, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if countComments(t, site) != 0 {
		t.Fatal("anonymous comment must not be stored")
	}
}

func TestAddCommentStoresUnapproved(t *testing.T) {
	site := setupSite(t)
	cookies := site.login(t)
	post := site.seedPost(t, "Open", nil)
	target := fmt.Sprintf("/post/%d/comment/", post.ID)

	form := site.do(http.MethodGet, target, nil, cookies)
	if form.Code != http.StatusOK || !strings.Contains(form.Body.String(), `name="author"`) {
		t.Fatalf("expected comment form, got %d", form.Code)
	}

	rr := site.do(http.MethodPost, target, url.Values{"author": {"Bob"}, "text": {"Great read"}}, cookies)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != fmt.Sprintf("/post/%d/", post.ID) {
		t.Fatalf("expected redirect to detail, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	var comment db.Comment
	if err := site.db.First(&comment).Error; err != nil {
		t.Fatalf("expected comment to be stored: %v", err)
	}
	if comment.Approved {
		t.Fatal("new comments must start unapproved")
	}
	if comment.PostID != post.ID || comment.Author != "Bob" {
		t.Fatalf("unexpected comment %+v", comment)
	}
}

func TestAddCommentEmptyTextRerendersForm(t *testing.T) {
	site := setupSite(t)
	cookies := site.login(t)
	post := site.seedPost(t, "Open", nil)

	rr := site.do(http.MethodPost, fmt.Sprintf("/post/%d/comment/", post.ID), url.Values{"author": {"Bob"}, "text": {""}}, cookies)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "This field is required.") {
		t.Fatal("expected field error for empty text")
	}
	if !strings.Contains(body, `value="Bob"`) {
		t.Fatal("expected submitted author to be kept in the form")
	}
	if countComments(t, site) != 0 {
		t.Fatal("invalid comment must not be stored")
	}
}

func TestAddCommentToMissingPost(t *testing.T) {
	site := setupSite(t)
	cookies := site.login(t)

	rr := site.do(http.MethodPost, "/post/404/comment/", url.Values{"author": {"Bob"}, "text": {"hi"}}, cookies)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestApproveAndRemoveComment(t *testing.T) {
	site := setupSite(t)
	cookies := site.login(t)
	post := site.seedPost(t, "Moderated", nil)
	comment := site.seedComment(t, post.ID, "needs review", false)
	detail := fmt.Sprintf("/post/%d/", post.ID)

	rr := site.do(http.MethodGet, fmt.Sprintf("/post/%d/comment/approve/", comment.ID), nil, cookies)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != detail {
		t.Fatalf("expected redirect to owning post, got %d %q", rr.Code, rr.Header().Get("Location"))
	}

	var stored db.Comment
	if err := site.db.First(&stored, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if !stored.Approved {
		t.Fatal("expected comment to be approved")
	}

	rr = site.do(http.MethodGet, fmt.Sprintf("/post/%d/comment/remove/", comment.ID), nil, cookies)
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != detail {
		t.Fatalf("expected redirect to owning post, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if countComments(t, site) != 0 {
		t.Fatal("expected comment to be removed")
	}

	rr = site.do(http.MethodGet, fmt.Sprintf("/post/%d/comment/approve/", comment.ID), nil, cookies)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected approve after remove to 404, got %d", rr.Code)
	}
}

func TestApproveMissingCommentLeavesStateAlone(t *testing.T) {
	site := setupSite(t)
	cookies := site.login(t)
	post := site.seedPost(t, "Moderated", nil)
	comment := site.seedComment(t, post.ID, "pending", false)

	rr := site.do(http.MethodGet, fmt.Sprintf("/post/%d/comment/approve/", comment.ID+100), nil, cookies)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No comment found") {
		t.Fatal("expected the comment not found message")
	}

	var stored db.Comment
	if err := site.db.First(&stored, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if stored.Approved {
		t.Fatal("existing comment must stay unapproved")
	}
}

func TestModerationRequiresLogin(t *testing.T) {
	site := setupSite(t)
	post := site.seedPost(t, "Moderated", nil)
	comment := site.seedComment(t, post.ID, "pending", false)

	for _, action := range []string{"approve", "remove"} {
		rr := site.do(http.MethodGet, fmt.Sprintf("/post/%d/comment/%s/", comment.ID, action), nil, nil)
		if rr.Code != http.StatusFound {
			t.Fatalf("%s: expected redirect to login, got %d", action, rr.Code)
		}
	}
	if countComments(t, site) != 1 {
		t.Fatal("anonymous moderation must not change state")
	}
}
