package db

import "time"

// Post 定义了文章模型。PublishDate 为 nil 表示草稿。
type Post struct {
	ID          uint       `gorm:"primaryKey"`
	AuthorID    uint       `gorm:"not null;index"`
	Author      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title       string     `gorm:"size:200;not null"`
	Text        string     `gorm:"size:200;not null"`
	CreateDate  time.Time  `gorm:"not null;index"`
	PublishDate *time.Time `gorm:"index"`
	Comments    []Comment  `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// IsPublished reports whether the post has a publish date at or before now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishDate != nil && !p.PublishDate.After(now)
}

// ApprovedComments returns the approved subset of the loaded comments.
func (p *Post) ApprovedComments() []Comment {
	approved := make([]Comment, 0, len(p.Comments))
	for _, comment := range p.Comments {
		if comment.Approved {
			approved = append(approved, comment)
		}
	}
	return approved
}
