package services

import (
	"context"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfacePanicService defines the panic alert service interface
type InterfacePanicService interface {
	ListAlerts(ctx context.Context, actor *models.User, filter PanicFilter) ([]models.PanicAlert, models.PaginationResult, error)
	CreateAlert(ctx context.Context, actor *models.User, message string) (*models.PanicAlert, error)
	DeactivateAlert(ctx context.Context, actor *models.User, id uint) (*models.PanicAlert, error)
}

// PanicFilter narrows alert listings; ActiveOnly hides deactivated alerts
type PanicFilter struct {
	models.PaginationQuery
	ActiveOnly bool
}

// PanicService raises and clears panic alerts
type PanicService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotificationService
	now      Clock
}

// NewPanicService creates a new panic service
func NewPanicService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotificationService) InterfacePanicService {
	return &PanicService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		now:      systemClock,
	}
}

// 1 ListAlerts returns all alerts for administrators and the own alerts for residents, newest first
func (s *PanicService) ListAlerts(ctx context.Context, actor *models.User, filter PanicFilter) ([]models.PanicAlert, models.PaginationResult, error) {
	query := s.DB.WithContext(ctx).Model(&models.PanicAlert{})
	if !actor.IsAdmin() {
		query = query.Where("owner_id = ?", actor.ID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var alerts []models.PanicAlert
	page, q := paginate(query.Order("created_at DESC").Order("id DESC"), filter.PaginationQuery)
	if err := page.Preload("Owner").Find(&alerts).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return alerts, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 2 CreateAlert raises an alert and notifies administrators
func (s *PanicService) CreateAlert(ctx context.Context, actor *models.User, message string) (*models.PanicAlert, error) {
	alert, err := models.NewPanicAlert(actor, message)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyPanic(ctx, alert, actor)
	}
	return alert, nil
}

// 3 DeactivateAlert switches an active alert off; administrators only
func (s *PanicService) DeactivateAlert(ctx context.Context, actor *models.User, id uint) (*models.PanicAlert, error) {
	if actor == nil {
		return nil, models.PermissionDenied("authentication required")
	}

	var alert models.PanicAlert
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &alert, id, "panic alert"); err != nil {
			return err
		}
		if err := alert.Deactivate(actor, s.now()); err != nil {
			return err
		}
		return compareAndSet(tx, &models.PanicAlert{}, alert.ID, "active", true, map[string]interface{}{
			"active":            false,
			"deactivated_at":    alert.DeactivatedAt,
			"deactivated_by_id": alert.DeactivatedByID,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyPanicDeactivated(ctx, &alert)
	}
	return &alert, nil
}
