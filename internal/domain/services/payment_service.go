package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

const (
	PaymentMethodCard      = "card"
	PaymentMethodSimulated = "simulated"
)

// ChargeRequest describes the money to collect for a fine
type ChargeRequest struct {
	FineID    uint
	Amount    float64
	CardToken string
	Method    string
	// IdempotencyKey makes a retried charge for the same fine return the original charge
	IdempotencyKey string
}

// ChargeResult is what the gateway reports back
type ChargeResult struct {
	Method         string
	TransactionRef string
}

// InterfacePaymentService defines the payment gateway interface
type InterfacePaymentService interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, charge ChargeResult, amount float64) error
}

// PaymentHook runs after a fine is settled; errors are logged, never returned to the payer
type PaymentHook interface {
	AfterPayment(ctx context.Context, payment models.Payment) error
}

// LogPaymentHook only records the payment in the log
type LogPaymentHook struct{}

func (LogPaymentHook) AfterPayment(_ context.Context, payment models.Payment) error {
	Logger.Info("fine %d paid by user %d: %.2f via %s (ref %s)",
		payment.FineID, payment.OwnerID, payment.Amount, payment.Method, payment.TransactionRef)
	return nil
}

// PaymentService charges cards through Omise when keys are configured and
// otherwise records a simulated payment
type PaymentService struct {
	Config      *config.Config
	cardEnabled bool
}

// NewPaymentService creates a new payment service
func NewPaymentService(cfg *config.Config) InterfacePaymentService {
	s := &PaymentService{Config: cfg}
	if cfg.OmiseEnabled() {
		if _, err := omise.NewClient(cfg.OmisePublicKey, cfg.OmiseSecretKey); err != nil {
			Logger.Error("omise client init failed, card payments disabled: %v", err)
		} else {
			s.cardEnabled = true
		}
	}
	return s
}

// newClient builds a request-scoped client; custom headers are per client
func (s *PaymentService) newClient(ctx context.Context, idempotencyKey string) (*omise.Client, error) {
	client, err := omise.NewClient(s.Config.OmisePublicKey, s.Config.OmiseSecretKey)
	if err != nil {
		return nil, err
	}
	client.WithContext(ctx)
	if idempotencyKey != "" {
		client.WithCustomHeaders(map[string]string{"Idempotency-Key": idempotencyKey})
	}
	return client, nil
}

// Charge collects the amount. A card token needs a configured gateway.
func (s *PaymentService) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	token := strings.TrimSpace(req.CardToken)
	if token == "" {
		method := strings.TrimSpace(req.Method)
		if method == "" {
			method = PaymentMethodSimulated
		}
		return &ChargeResult{
			Method:         method,
			TransactionRef: "sim_" + uuid.NewString(),
		}, nil
	}

	if !s.cardEnabled {
		return nil, models.ValidationError("card payments are not available")
	}
	client, err := s.newClient(ctx, req.IdempotencyKey)
	if err != nil {
		return nil, models.PaymentFailed("the payment gateway is unavailable")
	}

	charge := &omise.Charge{}
	op := &operations.CreateCharge{
		Amount:      toMinorUnits(req.Amount),
		Currency:    s.Config.PaymentCurrency,
		Card:        token,
		Description: fmt.Sprintf("fine %d payment", req.FineID),
		Metadata:    map[string]interface{}{"fine_id": req.FineID},
	}
	if err := client.Do(charge, op); err != nil {
		Logger.Error("omise charge for fine %d failed: %v", req.FineID, err)
		return nil, models.PaymentFailed("the card charge failed")
	}
	if !charge.Paid {
		Logger.Warning("omise charge %s for fine %d not paid, status %s", charge.ID, req.FineID, charge.Status)
		return nil, models.PaymentFailed("the card was declined")
	}

	return &ChargeResult{
		Method:         PaymentMethodCard,
		TransactionRef: charge.ID,
	}, nil
}

// Refund returns a card charge in full. Simulated payments move no money.
func (s *PaymentService) Refund(ctx context.Context, charge ChargeResult, amount float64) error {
	if charge.Method != PaymentMethodCard {
		return nil
	}
	if !s.cardEnabled {
		return models.ValidationError("card payments are not available")
	}
	client, err := s.newClient(ctx, "refund-"+charge.TransactionRef)
	if err != nil {
		return err
	}

	refund := &omise.Refund{}
	if err := client.Do(refund, &operations.CreateRefund{
		ChargeID: charge.TransactionRef,
		Amount:   toMinorUnits(amount),
	}); err != nil {
		return models.PaymentFailed("refund of %s failed", charge.TransactionRef)
	}
	Logger.Info("refunded charge %s as %s", charge.TransactionRef, refund.ID)
	return nil
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
