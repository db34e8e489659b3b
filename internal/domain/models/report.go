package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ReportStatus is the state of an incident report
type ReportStatus string

const (
	ReportReceived   ReportStatus = "received"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportRejected   ReportStatus = "rejected"
)

// Valid reports whether s is a known report status
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportReceived, ReportInProgress, ReportResolved, ReportRejected:
		return true
	}
	return false
}

// Report is an incident filed by a resident
type Report struct {
	BaseModel
	Title           string       `gorm:"type:varchar(200);not null" json:"title"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Location        string       `gorm:"type:varchar(200);not null" json:"location"`
	Status          ReportStatus `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	OwnerID         uint         `gorm:"not null;index" json:"owner_id"`
	Owner           *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	ResolverID      *uint        `json:"resolver_id,omitempty"`
	Resolver        *User        `gorm:"foreignKey:ResolverID" json:"resolver,omitempty"`
	AdminComment    string       `gorm:"type:text" json:"admin_comment,omitempty"`
	RejectionReason string       `gorm:"type:text" json:"rejection_reason,omitempty"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"` // set on resolution and on rejection
}

// NewReport builds a received report owned by owner
func NewReport(owner *User, title, description, location string) (*Report, error) {
	if owner == nil || owner.ID == 0 {
		return nil, ValidationError("report owner is required")
	}
	r := &Report{OwnerID: owner.ID, Status: ReportReceived}
	if err := r.UpdateDetails(title, description, location); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Report) OwnedBy() uint {
	return r.OwnerID
}

// IsClosed reports whether the report reached a terminal state
func (r *Report) IsClosed() bool {
	return r.Status == ReportResolved || r.Status == ReportRejected
}

// UpdateDetails replaces the user-editable fields
func (r *Report) UpdateDetails(title, description, location string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	location = strings.TrimSpace(location)

	if title == "" {
		return ValidationError("title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return ValidationError("title cannot exceed 200 characters")
	}
	if description == "" {
		return ValidationError("description is required")
	}
	if location == "" {
		return ValidationError("location is required")
	}
	if utf8.RuneCountInString(location) > 200 {
		return ValidationError("location cannot exceed 200 characters")
	}

	r.Title, r.Description, r.Location = title, description, location
	return nil
}

// StartProgress moves a received report to in_progress
func (r *Report) StartProgress() error {
	if r.Status != ReportReceived {
		return InvalidTransition("only received reports can be moved to in progress (current: %s)", r.Status)
	}
	r.Status = ReportInProgress
	return nil
}

// Resolve marks the report resolved by admin with an optional comment.
// A rejected report can still be resolved; its rejection reason is cleared.
func (r *Report) Resolve(admin *User, comment string, now time.Time) error {
	if !admin.IsAdmin() {
		return PermissionDenied("only administrators can resolve reports")
	}
	if r.Status == ReportResolved {
		return InvalidTransition("this report is already resolved")
	}

	r.Status = ReportResolved
	r.RejectionReason = ""
	r.ResolvedAt = &now
	r.ResolverID = &admin.ID
	r.Resolver = admin
	if comment = strings.TrimSpace(comment); comment != "" {
		r.AdminComment = comment
	}
	return nil
}

// Reject closes the report with a mandatory reason
func (r *Report) Reject(admin *User, reason string, now time.Time) error {
	if !admin.IsAdmin() {
		return PermissionDenied("only administrators can reject reports")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ValidationError("a rejection reason is required")
	}
	if r.IsClosed() {
		return InvalidTransition("a %s report cannot be rejected", r.Status)
	}

	r.Status = ReportRejected
	r.RejectionReason = reason
	r.ResolvedAt = &now
	r.ResolverID = &admin.ID
	r.Resolver = admin
	return nil
}

// AddAdminComment attaches an administrator note without touching the status
func (r *Report) AddAdminComment(admin *User, text string) error {
	if !admin.IsAdmin() {
		return PermissionDenied("only administrators can comment on reports")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ValidationError("comment cannot be empty")
	}
	r.AdminComment = text
	return nil
}
