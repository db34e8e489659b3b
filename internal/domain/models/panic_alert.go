package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultPanicMessage   = "Panic alert activated"
	MaxPanicMessageLength = 255
)

// PanicAlert is an emergency flag raised by a resident
type PanicAlert struct {
	BaseModel
	OwnerID         uint       `gorm:"not null;index" json:"owner_id"`
	Owner           *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Message         string     `gorm:"type:varchar(255);not null" json:"message"`
	Active          bool       `gorm:"not null;index" json:"active"`
	DeactivatedAt   *time.Time `json:"deactivated_at,omitempty"`
	DeactivatedByID *uint      `json:"deactivated_by_id,omitempty"`
	DeactivatedBy   *User      `gorm:"foreignKey:DeactivatedByID" json:"deactivated_by,omitempty"`
}

// NewPanicAlert builds an active alert; a blank message gets the default text
func NewPanicAlert(owner *User, message string) (*PanicAlert, error) {
	if owner == nil || owner.ID == 0 {
		return nil, ValidationError("alert owner is required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultPanicMessage
	}
	if utf8.RuneCountInString(message) > MaxPanicMessageLength {
		return nil, ValidationError("message cannot exceed %d characters", MaxPanicMessageLength)
	}
	return &PanicAlert{OwnerID: owner.ID, Message: message, Active: true}, nil
}

func (a *PanicAlert) OwnedBy() uint {
	return a.OwnerID
}

// Deactivate switches the alert off. A supplied actor must be an administrator;
// a nil actor records no deactivator.
func (a *PanicAlert) Deactivate(actor *User, now time.Time) error {
	if !a.Active {
		return InvalidTransition("this alert is already deactivated")
	}
	if actor != nil && !actor.IsAdmin() {
		return PermissionDenied("only administrators can deactivate alerts")
	}

	a.Active = false
	a.DeactivatedAt = &now
	if actor != nil {
		a.DeactivatedByID = &actor.ID
		a.DeactivatedBy = actor
	}
	return nil
}
