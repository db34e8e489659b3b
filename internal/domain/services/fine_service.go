package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

// InterfaceFineService defines the fine service interface
type InterfaceFineService interface {
	ListFines(ctx context.Context, actor *models.User, filter FineFilter) ([]models.Fine, models.PaginationResult, error)
	GetFine(ctx context.Context, actor *models.User, id uint) (*models.Fine, error)
	CreateFine(ctx context.Context, actor *models.User, input FineInput) (*models.Fine, error)
	UpdateFine(ctx context.Context, actor *models.User, id uint, input FineInput) (*models.Fine, error)
	DeleteFine(ctx context.Context, actor *models.User, id uint) error
	PayFine(ctx context.Context, actor *models.User, id uint, input PayFineInput) (*models.Fine, error)
	TotalPendingForUser(ctx context.Context, userID uint) (float64, error)
}

// FineInput carries the administrator-supplied fine fields
type FineInput struct {
	OwnerID uint
	Amount  float64
	Reason  string
}

// PayFineInput carries the optional payment details
type PayFineInput struct {
	Method    string
	CardToken string
}

// FineFilter narrows fine listings
type FineFilter struct {
	models.PaginationQuery
	Status models.FineStatus
}

// FineService drives the fine lifecycle
type FineService struct {
	DB       *gorm.DB
	Config   *config.Config
	Payments InterfacePaymentService
	Hook     PaymentHook
	now      Clock
}

// NewFineService creates a new fine service
func NewFineService(db *gorm.DB, cfg *config.Config, payments InterfacePaymentService, hook PaymentHook) InterfaceFineService {
	if hook == nil {
		hook = LogPaymentHook{}
	}
	return &FineService{
		DB:       db,
		Config:   cfg,
		Payments: payments,
		Hook:     hook,
		now:      systemClock,
	}
}

// 1 ListFines returns every fine for administrators and the own fines for residents
func (s *FineService) ListFines(ctx context.Context, actor *models.User, filter FineFilter) ([]models.Fine, models.PaginationResult, error) {
	if filter.Status != "" && filter.Status != models.FinePending && filter.Status != models.FinePaid {
		return nil, models.PaginationResult{}, models.ValidationError("unknown fine status %q", filter.Status)
	}

	query := s.DB.WithContext(ctx).Model(&models.Fine{})
	if !actor.IsAdmin() {
		query = query.Where("owner_id = ?", actor.ID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var fines []models.Fine
	page, q := paginate(query.Order("created_at DESC").Order("id DESC"), filter.PaginationQuery)
	if err := page.Preload("Owner").Find(&fines).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return fines, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 2 GetFine loads a fine visible to actor
func (s *FineService) GetFine(ctx context.Context, actor *models.User, id uint) (*models.Fine, error) {
	var fine models.Fine
	if err := findByID(ctx, s.DB.Preload("Owner"), &fine, id, "fine"); err != nil {
		return nil, err
	}
	if !policy.CanView(actor, &fine) {
		return nil, models.PermissionDenied("you can only view your own fines")
	}
	return &fine, nil
}

// 3 CreateFine issues a pending fine to a user
func (s *FineService) CreateFine(ctx context.Context, actor *models.User, input FineInput) (*models.Fine, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can issue fines")
	}

	var owner models.User
	if err := findByID(ctx, s.DB, &owner, input.OwnerID, "user"); err != nil {
		return nil, err
	}
	fine, err := models.NewFine(&owner, input.Amount, input.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(fine).Error; err != nil {
		return nil, err
	}
	fine.Owner = &owner
	return fine, nil
}

// 4 UpdateFine changes amount and reason of a pending fine
func (s *FineService) UpdateFine(ctx context.Context, actor *models.User, id uint, input FineInput) (*models.Fine, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can edit fines")
	}

	var fine models.Fine
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &fine, id, "fine"); err != nil {
			return err
		}
		if !fine.IsPending() {
			return models.InvalidTransition("a paid fine cannot be edited")
		}
		if err := fine.Update(input.Amount, input.Reason); err != nil {
			return err
		}
		return compareAndSet(tx, &models.Fine{}, fine.ID, "status", string(models.FinePending), map[string]interface{}{
			"amount": fine.Amount,
			"reason": fine.Reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

// 5 DeleteFine removes a fine
func (s *FineService) DeleteFine(ctx context.Context, actor *models.User, id uint) error {
	if !actor.IsAdmin() {
		return models.PermissionDenied("only administrators can delete fines")
	}
	var fine models.Fine
	if err := findByID(ctx, s.DB, &fine, id, "fine"); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(&fine).Error
}

// 6 PayFine settles a pending fine owned by actor, then runs the payment hook.
// The fine row stays locked from the ownership check until the payment is
// recorded, so a fine is charged at most once.
func (s *FineService) PayFine(ctx context.Context, actor *models.User, id uint, input PayFineInput) (*models.Fine, error) {
	var (
		fine    models.Fine
		charge  *ChargeResult
		payment models.Payment
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), &fine, id, "fine"); err != nil {
			return err
		}
		if !policy.CanPay(actor, &fine) {
			if actor != nil && fine.OwnedBy() == actor.ID {
				return models.InvalidTransition("this fine has already been paid")
			}
			return models.PermissionDenied("you can only pay your own pending fines")
		}

		var err error
		charge, err = s.Payments.Charge(ctx, ChargeRequest{
			FineID:         fine.ID,
			Amount:         fine.Amount,
			CardToken:      input.CardToken,
			Method:         input.Method,
			IdempotencyKey: fineIdempotencyKey(fine.ID),
		})
		if err != nil {
			return err
		}

		payment, err = fine.Pay(charge.Method, charge.TransactionRef, s.now())
		if err != nil {
			return err
		}
		return compareAndSet(tx, &models.Fine{}, fine.ID, "status", string(models.FinePending), map[string]interface{}{
			"status":          string(fine.Status),
			"paid_at":         fine.PaidAt,
			"payment_method":  fine.PaymentMethod,
			"transaction_ref": fine.TransactionRef,
		})
	})
	if err != nil {
		if charge != nil {
			Logger.Error("fine %d charged (ref %s) but not recorded, refunding: %v", id, charge.TransactionRef, err)
			if rerr := s.Payments.Refund(context.WithoutCancel(ctx), *charge, fine.Amount); rerr != nil {
				Logger.Error("refund of %s for fine %d failed: %v", charge.TransactionRef, id, rerr)
			}
		}
		return nil, err
	}

	if err := s.Hook.AfterPayment(ctx, payment); err != nil {
		Logger.Warning("payment hook for fine %d failed: %v", fine.ID, err)
	}
	return &fine, nil
}

func fineIdempotencyKey(id uint) string {
	return fmt.Sprintf("vizinho-fine-%d", id)
}

// 7 TotalPendingForUser sums the pending amounts of a user, 0 when there are none
func (s *FineService) TotalPendingForUser(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := s.DB.WithContext(ctx).Model(&models.Fine{}).
		Where("owner_id = ? AND status = ?", userID, string(models.FinePending)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
