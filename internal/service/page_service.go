package service

import (
	"errors"
	"strings"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound       = errors.New("page not found")
	ErrPageContentMissing = errors.New("page content is required")
)

const defaultAboutTitle = "About"

// PageService provides access to static pages such as About.
type PageService struct {
	db *gorm.DB
}

// NewPageService returns a new PageService instance.
func NewPageService(gdb *gorm.DB) *PageService {
	return &PageService{db: gdb}
}

// GetBySlug fetches a page for a given slug.
func (s *PageService) GetBySlug(slug string) (*db.Page, error) {
	var page db.Page
	if err := s.db.Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// SaveAboutPage creates or updates the about page.
func (s *PageService) SaveAboutPage(title, content string) (*db.Page, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrPageContentMissing
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultAboutTitle
	}

	page, err := s.GetBySlug(db.PageSlugAbout)
	if err != nil {
		if !errors.Is(err, ErrPageNotFound) {
			return nil, err
		}
		page = &db.Page{Slug: db.PageSlugAbout, Title: title, Content: trimmed}
		if err := s.db.Create(page).Error; err != nil {
			return nil, err
		}
		return page, nil
	}

	page.Title = title
	page.Content = trimmed
	if err := s.db.Save(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}
