package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinCommentLength = 3
	MaxCommentLength = 500
)

// Comment is attached to exactly one report or one announcement
type Comment struct {
	BaseModel
	Content        string     `gorm:"type:text;not null" json:"content"`
	AuthorID       uint       `gorm:"not null;index" json:"author_id"`
	Author         *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ReportID       *uint      `gorm:"index" json:"report_id,omitempty"`
	AnnouncementID *uint      `gorm:"index" json:"announcement_id,omitempty"`
	Edited         bool       `gorm:"not null" json:"edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
}

// NewComment validates the content and the single-parent rule
func NewComment(author *User, content string, reportID, announcementID *uint) (*Comment, error) {
	if author == nil || author.ID == 0 {
		return nil, ValidationError("comment author is required")
	}

	reportID = nonZero(reportID)
	announcementID = nonZero(announcementID)
	switch {
	case reportID == nil && announcementID == nil:
		return nil, ValidationError("a comment must belong to a report or an announcement")
	case reportID != nil && announcementID != nil:
		return nil, ValidationError("a comment cannot belong to both a report and an announcement")
	}

	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	return &Comment{
		Content:        content,
		AuthorID:       author.ID,
		ReportID:       reportID,
		AnnouncementID: announcementID,
	}, nil
}

func (c *Comment) OwnedBy() uint {
	return c.AuthorID
}

// Edit replaces the content and flags the comment as edited
func (c *Comment) Edit(content string, now time.Time) error {
	content, err := validateCommentContent(content)
	if err != nil {
		return err
	}
	c.Content = content
	c.Edited = true
	c.EditedAt = &now
	return nil
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n < MinCommentLength {
		return "", ValidationError("comment must have at least %d characters", MinCommentLength)
	}
	if n > MaxCommentLength {
		return "", ValidationError("comment cannot exceed %d characters", MaxCommentLength)
	}
	return content, nil
}

func nonZero(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
