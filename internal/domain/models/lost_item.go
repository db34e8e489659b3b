package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// LostItem is an object reported lost (or found) in the community
type LostItem struct {
	BaseModel
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	ImageURL    string     `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Found       bool       `gorm:"not null;index" json:"found"`
	FoundAt     *time.Time `json:"found_at,omitempty"`
}

// NewLostItem builds an unfound item reported by owner
func NewLostItem(owner *User, title, description, imageURL string) (*LostItem, error) {
	if owner == nil || owner.ID == 0 {
		return nil, ValidationError("item owner is required")
	}
	item := &LostItem{OwnerID: owner.ID}
	if err := item.UpdateDetails(title, description, imageURL); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *LostItem) OwnedBy() uint {
	return i.OwnerID
}

// UpdateDetails replaces title, description and image URL
func (i *LostItem) UpdateDetails(title, description, imageURL string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	imageURL = strings.TrimSpace(imageURL)

	if title == "" {
		return ValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > 100 {
		return ValidationError("title cannot exceed 100 characters")
	}
	if description == "" {
		return ValidationError("description is required")
	}
	if len(imageURL) > 500 {
		return ValidationError("image URL cannot exceed 500 characters")
	}

	i.Title, i.Description, i.ImageURL = title, description, imageURL
	return nil
}

// MarkFound flags the item as found. It happens once.
func (i *LostItem) MarkFound(now time.Time) error {
	if i.Found {
		return InvalidTransition("this item has already been marked as found")
	}
	i.Found = true
	i.FoundAt = &now
	return nil
}
