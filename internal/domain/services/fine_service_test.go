package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/test/testutil"
)

type recordingHook struct {
	payments []models.Payment
	err      error
}

func (h *recordingHook) AfterPayment(_ context.Context, payment models.Payment) error {
	h.payments = append(h.payments, payment)
	return h.err
}

type failingGateway struct{}

func (failingGateway) Charge(context.Context, ChargeRequest) (*ChargeResult, error) {
	return nil, models.PaymentFailed("the card was declined")
}

func (failingGateway) Refund(context.Context, ChargeResult, float64) error { return nil }

// countingGateway approves every card charge and remembers what it was asked to do
type countingGateway struct {
	mu       sync.Mutex
	charges  []ChargeRequest
	refunds  []string
	onCharge func()
}

func (g *countingGateway) Charge(_ context.Context, req ChargeRequest) (*ChargeResult, error) {
	g.mu.Lock()
	g.charges = append(g.charges, req)
	n := len(g.charges)
	g.mu.Unlock()
	if g.onCharge != nil {
		g.onCharge()
	}
	return &ChargeResult{Method: PaymentMethodCard, TransactionRef: fmt.Sprintf("chrg_test_%d", n)}, nil
}

func (g *countingGateway) Refund(_ context.Context, charge ChargeResult, _ float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refunds = append(g.refunds, charge.TransactionRef)
	return nil
}

func newFineService(t *testing.T, hook PaymentHook) (*FineService, *models.User, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	svc := NewFineService(db, cfg, NewPaymentService(cfg), hook).(*FineService)
	svc.now = testutil.FixedClock(time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC))
	return svc, testutil.CreateUser(t, db, models.RoleAdministrator), testutil.CreateUser(t, db, models.RoleResident)
}

func TestFineServicePayClearsPendingTotal(t *testing.T) {
	hook := &recordingHook{}
	svc, admin, resident := newFineService(t, hook)
	ctx := context.Background()

	fine, err := svc.CreateFine(ctx, admin, FineInput{OwnerID: resident.ID, Amount: 150.00, Reason: "Noise after 22:00 on Saturday"})
	require.NoError(t, err)
	assert.Equal(t, models.FinePending, fine.Status)

	total, err := svc.TotalPendingForUser(ctx, resident.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150.00, total, 0.001)

	paid, err := svc.PayFine(ctx, resident, fine.ID, PayFineInput{})
	require.NoError(t, err)
	assert.Equal(t, models.FinePaid, paid.Status)
	assert.Equal(t, PaymentMethodSimulated, paid.PaymentMethod)
	assert.True(t, strings.HasPrefix(paid.TransactionRef, "sim_"))

	total, err = svc.TotalPendingForUser(ctx, resident.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.Len(t, hook.payments, 1)
	assert.Equal(t, fine.ID, hook.payments[0].FineID)
	assert.Equal(t, resident.ID, hook.payments[0].OwnerID)
	assert.InDelta(t, 150.00, hook.payments[0].Amount, 0.001)

	_, err = svc.PayFine(ctx, resident, fine.ID, PayFineInput{})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Len(t, hook.payments, 1)
}

func TestFineServiceOnlyOwnerPays(t *testing.T) {
	svc, admin, resident := newFineService(t, nil)
	other := testutil.CreateUser(t, svc.DB, models.RoleResident)
	fine := testutil.CreateFine(t, svc.DB, resident, 80)
	ctx := context.Background()

	_, err := svc.PayFine(ctx, admin, fine.ID, PayFineInput{})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.PayFine(ctx, other, fine.ID, PayFineInput{})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.PayFine(ctx, resident, fine.ID+50, PayFineInput{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFineServiceHookFailureDoesNotFailPayment(t *testing.T) {
	hook := &recordingHook{err: errors.New("mailer down")}
	svc, _, resident := newFineService(t, hook)
	fine := testutil.CreateFine(t, svc.DB, resident, 45.5)

	paid, err := svc.PayFine(context.Background(), resident, fine.ID, PayFineInput{Method: "pix"})
	require.NoError(t, err)
	assert.Equal(t, "pix", paid.PaymentMethod)
	assert.Len(t, hook.payments, 1)
}

func TestFineServiceGatewayFailureKeepsFinePending(t *testing.T) {
	svc, _, resident := newFineService(t, nil)
	svc.Payments = failingGateway{}
	fine := testutil.CreateFine(t, svc.DB, resident, 45.5)

	_, err := svc.PayFine(context.Background(), resident, fine.ID, PayFineInput{CardToken: "tokn_test"})
	assert.ErrorIs(t, err, models.ErrPaymentFailed)

	var stored models.Fine
	require.NoError(t, svc.DB.First(&stored, fine.ID).Error)
	assert.Equal(t, models.FinePending, stored.Status)
}

func TestFineServiceAdministration(t *testing.T) {
	svc, admin, resident := newFineService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateFine(ctx, resident, FineInput{OwnerID: resident.ID, Amount: 10, Reason: "Parking on the lawn"})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.CreateFine(ctx, admin, FineInput{OwnerID: resident.ID, Amount: 10000.01, Reason: "Parking on the lawn"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateFine(ctx, admin, FineInput{OwnerID: resident.ID, Amount: 0.001, Reason: "Parking on the lawn"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateFine(ctx, admin, FineInput{OwnerID: 9999, Amount: 10, Reason: "Parking on the lawn"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	fine, err := svc.CreateFine(ctx, admin, FineInput{OwnerID: resident.ID, Amount: 10, Reason: "Parking on the lawn"})
	require.NoError(t, err)

	updated, err := svc.UpdateFine(ctx, admin, fine.ID, FineInput{Amount: 25, Reason: "Parking on the lawn twice"})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, updated.Amount, 0.001)

	_, err = svc.PayFine(ctx, resident, fine.ID, PayFineInput{})
	require.NoError(t, err)

	_, err = svc.UpdateFine(ctx, admin, fine.ID, FineInput{Amount: 30, Reason: "Parking on the lawn again"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	require.NoError(t, svc.DeleteFine(ctx, admin, fine.ID))
	_, err = svc.GetFine(ctx, admin, fine.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFineServiceListVisibility(t *testing.T) {
	svc, admin, resident := newFineService(t, nil)
	other := testutil.CreateUser(t, svc.DB, models.RoleResident)
	ctx := context.Background()

	testutil.CreateFine(t, svc.DB, resident, 20)
	testutil.CreateFine(t, svc.DB, resident, 30)
	otherFine := testutil.CreateFine(t, svc.DB, other, 40)

	all, _, err := svc.ListFines(ctx, admin, FineFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, page, err := svc.ListFines(ctx, resident, FineFilter{Status: models.FinePending})
	require.NoError(t, err)
	assert.Len(t, own, 2)
	assert.Equal(t, int64(2), page.Total)

	_, err = svc.GetFine(ctx, resident, otherFine.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, _, err = svc.ListFines(ctx, resident, FineFilter{Status: "waived"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFineServiceConcurrentPayChargesOnce(t *testing.T) {
	svc, _, resident := newFineService(t, nil)
	gateway := &countingGateway{}
	svc.Payments = gateway
	fine := testutil.CreateFine(t, svc.DB, resident, 150)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PayFine(context.Background(), resident, fine.ID, PayFineInput{CardToken: "tokn_test_1"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
	require.Len(t, gateway.charges, 1)
	assert.Equal(t, "vizinho-fine-"+fmt.Sprint(fine.ID), gateway.charges[0].IdempotencyKey)
	assert.Empty(t, gateway.refunds)

	var stored models.Fine
	require.NoError(t, svc.DB.First(&stored, fine.ID).Error)
	assert.Equal(t, models.FinePaid, stored.Status)
	assert.Equal(t, "chrg_test_1", stored.TransactionRef)
}

func TestFineServiceRefundsWhenPaymentIsNotRecorded(t *testing.T) {
	svc, _, resident := newFineService(t, nil)
	fine := testutil.CreateFine(t, svc.DB, resident, 60)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gateway := &countingGateway{onCharge: cancel}
	svc.Payments = gateway

	_, err := svc.PayFine(ctx, resident, fine.ID, PayFineInput{CardToken: "tokn_test_1"})
	require.Error(t, err)
	require.Len(t, gateway.charges, 1)
	assert.Equal(t, []string{"chrg_test_1"}, gateway.refunds)

	var stored models.Fine
	require.NoError(t, svc.DB.First(&stored, fine.ID).Error)
	assert.Equal(t, models.FinePending, stored.Status)
}
