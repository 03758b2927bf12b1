package service

import (
	"errors"
	"strings"
	"time"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService handles comment submission and moderation.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

// CommentInput is the visitor supplied part of a comment.
type CommentInput struct {
	Author string `form:"author" validate:"required,max=200"`
	Text   string `form:"text" validate:"required,max=200"`
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb, now: utcNow}
}

// Get fetches a comment by id.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns a post's comments in submission order.
func (s *CommentService) ListForPost(postID uint, approvedOnly bool) ([]db.Comment, error) {
	query := s.db.Where("post_id = ?", postID)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}

	var comments []db.Comment
	if err := query.Order("create_date asc, id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Add attaches a new, unapproved comment to an existing post.
func (s *CommentService) Add(postID uint, input CommentInput) (*db.Comment, error) {
	var posts int64
	if err := s.db.Model(&db.Post{}).Where("id = ?", postID).Count(&posts).Error; err != nil {
		return nil, err
	}
	if posts == 0 {
		return nil, ErrPostNotFound
	}

	input.Author = strings.TrimSpace(input.Author)
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	comment := db.Comment{
		PostID:     postID,
		Author:     input.Author,
		Text:       input.Text,
		CreateDate: s.now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Approve marks a comment as approved.
func (s *CommentService) Approve(id uint) (*db.Comment, error) {
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(comment).Update("is_approved", true).Error; err != nil {
		return nil, err
	}
	comment.Approved = true
	return comment, nil
}

// Remove deletes a comment and returns the id of the post it belonged to.
func (s *CommentService) Remove(id uint) (uint, error) {
	comment, err := s.Get(id)
	if err != nil {
		return 0, err
	}

	if err := s.db.Delete(&db.Comment{}, comment.ID).Error; err != nil {
		return 0, err
	}
	return comment.PostID, nil
}
