package models

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// FineStatus is the state of a fine
type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
)

const (
	MaxFineAmount       = 10000.0
	MinFineReasonLength = 10
	MaxFineReasonLength = 255
)

// Fine is a monetary penalty issued by an administrator to a resident
type Fine struct {
	BaseModel
	Amount         float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Reason         string     `gorm:"type:varchar(255);not null" json:"reason"`
	Status         FineStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	OwnerID        uint       `gorm:"not null;index" json:"owner_id"`
	Owner          *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	PaymentMethod  string     `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	TransactionRef string     `gorm:"type:varchar(100)" json:"transaction_ref,omitempty"`
}

// Payment describes a completed fine payment; handed to the payment hook
type Payment struct {
	FineID         uint      `json:"fine_id"`
	OwnerID        uint      `json:"owner_id"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"method,omitempty"`
	TransactionRef string    `json:"transaction_ref,omitempty"`
	PaidAt         time.Time `json:"paid_at"`
}

// ValidateFineAmount enforces 0 < amount <= MaxFineAmount in whole cents
func ValidateFineAmount(amount float64) error {
	if amount <= 0 {
		return ValidationError("amount must be > 0")
	}
	if amount > MaxFineAmount {
		return ValidationError("amount is unusually high, contact supervisor")
	}
	if math.Round(amount*100)/100 != amount {
		return ValidationError("amount cannot have more than 2 decimal places")
	}
	return nil
}

// ValidateFineReason requires at least MinFineReasonLength characters
func ValidateFineReason(reason string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(reason))
	if n < MinFineReasonLength {
		return ValidationError("reason must have at least %d characters", MinFineReasonLength)
	}
	if n > MaxFineReasonLength {
		return ValidationError("reason cannot exceed %d characters", MaxFineReasonLength)
	}
	return nil
}

// NewFine builds a pending fine for owner
func NewFine(owner *User, amount float64, reason string) (*Fine, error) {
	if owner == nil || owner.ID == 0 {
		return nil, ValidationError("fine owner is required")
	}
	f := &Fine{OwnerID: owner.ID, Status: FinePending}
	if err := f.Update(amount, reason); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Fine) OwnedBy() uint {
	return f.OwnerID
}

// IsPending reports whether the fine is still unpaid
func (f *Fine) IsPending() bool {
	return f.Status == FinePending
}

// Update changes amount and reason after validating both
func (f *Fine) Update(amount float64, reason string) error {
	if err := ValidateFineAmount(amount); err != nil {
		return err
	}
	if err := ValidateFineReason(reason); err != nil {
		return err
	}
	f.Amount = amount
	f.Reason = strings.TrimSpace(reason)
	return nil
}

// Pay settles a pending fine. A paid fine is left untouched.
func (f *Fine) Pay(method, transactionRef string, now time.Time) (Payment, error) {
	if f.Status == FinePaid {
		return Payment{}, InvalidTransition("this fine has already been paid")
	}

	f.Status = FinePaid
	f.PaidAt = &now
	f.PaymentMethod = strings.TrimSpace(method)
	f.TransactionRef = strings.TrimSpace(transactionRef)

	return Payment{
		FineID:         f.ID,
		OwnerID:        f.OwnerID,
		Amount:         f.Amount,
		Method:         f.PaymentMethod,
		TransactionRef: f.TransactionRef,
		PaidAt:         now,
	}, nil
}
