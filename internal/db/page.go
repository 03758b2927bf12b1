package db

import "time"

// Page represents a standalone content page such as About.
type Page struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:100;uniqueIndex;not null"`
	Title     string `gorm:"size:200;not null"`
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PageSlugAbout is the slug rendered at /about/.
const PageSlugAbout = "about"
