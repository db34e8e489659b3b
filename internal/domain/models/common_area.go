package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ReservationStatus is the state of a common-area booking
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// CommonArea is a shared space residents can book (pool, party room, court)
type CommonArea struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Capacity    int    `gorm:"not null" json:"capacity"`
}

func NewCommonArea(name, description string, capacity int) (*CommonArea, error) {
	a := &CommonArea{}
	if err := a.Update(name, description, capacity); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the area fields after validation
func (a *CommonArea) Update(name, description string, capacity int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return ValidationError("name cannot exceed 100 characters")
	}
	if capacity <= 0 {
		return ValidationError("capacity must be > 0")
	}
	a.Name, a.Description, a.Capacity = name, strings.TrimSpace(description), capacity
	return nil
}

// Reservation books a common area for a time slot
type Reservation struct {
	BaseModel
	AreaID      uint              `gorm:"not null;index" json:"area_id"`
	Area        *CommonArea       `gorm:"foreignKey:AreaID" json:"area,omitempty"`
	OwnerID     uint              `gorm:"not null;index" json:"owner_id"`
	Owner       *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	StartTime   time.Time         `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time         `gorm:"not null" json:"end_time"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// NewReservation validates the slot; overlap is checked by the caller against storage
func NewReservation(owner *User, area *CommonArea, start, end, now time.Time) (*Reservation, error) {
	if owner == nil || owner.ID == 0 {
		return nil, ValidationError("reservation owner is required")
	}
	if area == nil || area.ID == 0 {
		return nil, ValidationError("common area is required")
	}
	if !end.After(start) {
		return nil, ValidationError("end time must be after start time")
	}
	if start.Before(now) {
		return nil, ValidationError("reservations cannot start in the past")
	}
	return &Reservation{
		AreaID:    area.ID,
		OwnerID:   owner.ID,
		StartTime: start,
		EndTime:   end,
		Status:    ReservationConfirmed,
	}, nil
}

func (r *Reservation) OwnedBy() uint {
	return r.OwnerID
}

// Overlaps reports whether [start, end) intersects the reservation slot
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime) && r.StartTime.Before(end)
}

// Cancel releases the slot
func (r *Reservation) Cancel(now time.Time) error {
	if r.Status == ReservationCancelled {
		return InvalidTransition("this reservation is already cancelled")
	}
	r.Status = ReservationCancelled
	r.CancelledAt = &now
	return nil
}
