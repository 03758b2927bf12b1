package db

import "time"

// Comment 记录访客对文章的评论，需审核后才对匿名读者可见。
type Comment struct {
	ID         uint      `gorm:"primaryKey"`
	PostID     uint      `gorm:"not null;index"`
	Author     string    `gorm:"size:200;not null"`
	Text       string    `gorm:"size:200;not null"`
	CreateDate time.Time `gorm:"not null"`
	Approved   bool      `gorm:"column:is_approved;not null;default:false"`
}
