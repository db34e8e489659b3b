package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFineAmount(t *testing.T) {
	tests := []struct {
		amount  float64
		wantErr bool
	}{
		{0, true},
		{-5, true},
		{0.01, false},
		{150, false},
		{10000, false},
		{10000.01, true},
		{19.99, false},
		{0.001, true},
		{10.005, true},
		{10000.004, true},
	}

	for _, tt := range tests {
		err := ValidateFineAmount(tt.amount)
		if tt.wantErr {
			assert.True(t, errors.Is(err, ErrValidation), "amount %v", tt.amount)
		} else {
			assert.NoError(t, err, "amount %v", tt.amount)
		}
	}

	assert.EqualError(t, ValidateFineAmount(0), "amount must be > 0")
	assert.EqualError(t, ValidateFineAmount(10000.01), "amount is unusually high, contact supervisor")
	assert.EqualError(t, ValidateFineAmount(0.001), "amount cannot have more than 2 decimal places")
}

func TestNewFineReason(t *testing.T) {
	owner := testUser(3, RoleResident)

	_, err := NewFine(owner, 50, "too short")
	assert.True(t, errors.Is(err, ErrValidation))

	f, err := NewFine(owner, 50, "  Parking on the lawn  ")
	require.NoError(t, err)
	assert.Equal(t, "Parking on the lawn", f.Reason)
	assert.Equal(t, FinePending, f.Status)
	assert.True(t, f.IsPending())
}

func TestFinePay(t *testing.T) {
	f, err := NewFine(testUser(3, RoleResident), 150.00, "Noise after 22:00 on Saturday")
	require.NoError(t, err)
	f.ID = 9
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	payment, err := f.Pay("card", "chrg_test_1", now)
	require.NoError(t, err)
	assert.Equal(t, FinePaid, f.Status)
	assert.Equal(t, uint(9), payment.FineID)
	assert.Equal(t, uint(3), payment.OwnerID)
	assert.Equal(t, 150.00, payment.Amount)
	assert.Equal(t, "chrg_test_1", f.TransactionRef)
	assert.True(t, f.PaidAt.Equal(now))

	_, err = f.Pay("card", "chrg_test_2", now.Add(time.Minute))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, FinePaid, f.Status)
	assert.Equal(t, "chrg_test_1", f.TransactionRef)
}
