package models

import (
	"strings"
	"unicode/utf8"
)

// Announcement is a community post. It carries no owner, so only
// administrators may edit or delete it.
type Announcement struct {
	BaseModel
	Title    string `gorm:"type:varchar(200);not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func NewAnnouncement(author *User, title, content string) (*Announcement, error) {
	if author == nil || author.ID == 0 {
		return nil, ValidationError("announcement author is required")
	}
	a := &Announcement{AuthorID: author.ID}
	if err := a.Update(title, content); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces title and content
func (a *Announcement) Update(title, content string) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return ValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return ValidationError("title cannot exceed 200 characters")
	}
	if content == "" {
		return ValidationError("content is required")
	}
	a.Title, a.Content = title, content
	return nil
}
