package service

import (
	"errors"
	"strings"
	"time"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrAuthorRequired = errors.New("post author is required")
	ErrAuthorNotFound = errors.New("post author does not exist")
)

// PostService wraps post related database operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title    string `form:"title" validate:"required,max=200"`
	Text     string `form:"text" validate:"required,max=200"`
	AuthorID uint   `form:"-"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// ListPublished returns posts whose publish date has passed, oldest first.
// Only approved comments are preloaded.
func (s *PostService) ListPublished() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").
		Preload("Comments", "is_approved = ?", true).
		Where("publish_date IS NOT NULL AND publish_date <= ?", s.now()).
		Order("publish_date asc, id asc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListDrafts returns unpublished posts, newest first.
func (s *PostService) ListDrafts() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Author").
		Where("publish_date IS NULL").
		Order("create_date desc, id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a post by id with its author and comments preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Author").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("create_date asc, id asc")
		}).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a new draft owned by input.AuthorID.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.AuthorID == 0 {
		return nil, ErrAuthorRequired
	}

	var authors int64
	if err := s.db.Model(&db.User{}).Where("id = ?", input.AuthorID).Count(&authors).Error; err != nil {
		return nil, err
	}
	if authors == 0 {
		return nil, ErrAuthorNotFound
	}

	post := db.Post{
		AuthorID:   input.AuthorID,
		Title:      input.Title,
		Text:       input.Text,
		CreateDate: s.now(),
	}
	if err := s.db.Omit(clause.Associations).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update applies title and text edits to an existing post.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if err := s.db.Model(&existing).Updates(map[string]interface{}{
		"title": input.Title,
		"text":  input.Text,
	}).Error; err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Text = input.Text
	return &existing, nil
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Select("id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, post.ID).Error
	})
}

// Publish stamps the post's publish date with the current time.
// Publishing an already published post refreshes the timestamp.
func (s *PostService) Publish(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	publishedAt := s.now()
	if err := s.db.Model(&post).Update("publish_date", publishedAt).Error; err != nil {
		return nil, err
	}

	post.PublishDate = &publishedAt
	return &post, nil
}
