package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfaceReservationService defines the common area and reservation service interface
type InterfaceReservationService interface {
	ListAreas(ctx context.Context) ([]models.CommonArea, error)
	CreateArea(ctx context.Context, actor *models.User, input CommonAreaInput) (*models.CommonArea, error)
	UpdateArea(ctx context.Context, actor *models.User, id uint, input CommonAreaInput) (*models.CommonArea, error)
	DeleteArea(ctx context.Context, actor *models.User, id uint) error
	ListReservations(ctx context.Context, actor *models.User, filter ReservationFilter) ([]models.Reservation, models.PaginationResult, error)
	CreateReservation(ctx context.Context, actor *models.User, input ReservationInput) (*models.Reservation, error)
	CancelReservation(ctx context.Context, actor *models.User, id uint) (*models.Reservation, error)
}

type CommonAreaInput struct {
	Name        string
	Description string
	Capacity    int
}

type ReservationInput struct {
	AreaID    uint
	StartTime time.Time
	EndTime   time.Time
}

// ReservationFilter narrows reservation listings
type ReservationFilter struct {
	models.PaginationQuery
	AreaID uint
}

// ReservationService books common areas
type ReservationService struct {
	DB     *gorm.DB
	Config *config.Config
	now    Clock
}

// NewReservationService creates a new reservation service
func NewReservationService(db *gorm.DB, cfg *config.Config) InterfaceReservationService {
	return &ReservationService{
		DB:     db,
		Config: cfg,
		now:    systemClock,
	}
}

// 1 ListAreas returns every area by name
func (s *ReservationService) ListAreas(ctx context.Context) ([]models.CommonArea, error) {
	var areas []models.CommonArea
	err := s.DB.WithContext(ctx).Order("name ASC").Find(&areas).Error
	return areas, err
}

// 2 CreateArea registers a bookable area; administrators only
func (s *ReservationService) CreateArea(ctx context.Context, actor *models.User, input CommonAreaInput) (*models.CommonArea, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can manage common areas")
	}
	area, err := models.NewCommonArea(input.Name, input.Description, input.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, area.Name, 0); err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(area).Error; err != nil {
		return nil, err
	}
	return area, nil
}

// 3 UpdateArea edits an area; administrators only
func (s *ReservationService) UpdateArea(ctx context.Context, actor *models.User, id uint, input CommonAreaInput) (*models.CommonArea, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can manage common areas")
	}
	var area models.CommonArea
	if err := findByID(ctx, s.DB, &area, id, "common area"); err != nil {
		return nil, err
	}
	if err := area.Update(input.Name, input.Description, input.Capacity); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, area.Name, area.ID); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Model(&models.CommonArea{}).Where("id = ?", area.ID).Updates(map[string]interface{}{
		"name":        area.Name,
		"description": area.Description,
		"capacity":    area.Capacity,
	}).Error
	if err != nil {
		return nil, err
	}
	return &area, nil
}

// 4 DeleteArea removes an area together with its reservations; administrators only
func (s *ReservationService) DeleteArea(ctx context.Context, actor *models.User, id uint) error {
	if !actor.IsAdmin() {
		return models.PermissionDenied("only administrators can manage common areas")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var area models.CommonArea
		if err := findByID(ctx, tx, &area, id, "common area"); err != nil {
			return err
		}
		if err := tx.Where("area_id = ?", area.ID).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&area).Error
	})
}

// 5 ListReservations returns all bookings for administrators and the own bookings for residents, by start time
func (s *ReservationService) ListReservations(ctx context.Context, actor *models.User, filter ReservationFilter) ([]models.Reservation, models.PaginationResult, error) {
	query := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if !actor.IsAdmin() {
		query = query.Where("owner_id = ?", actor.ID)
	}
	if filter.AreaID != 0 {
		query = query.Where("area_id = ?", filter.AreaID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var reservations []models.Reservation
	page, q := paginate(query.Order(order("start_time", filter.Desc)).Order("id ASC"), filter.PaginationQuery)
	if err := page.Preload("Area").Find(&reservations).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return reservations, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 6 CreateReservation books a free slot of an area
func (s *ReservationService) CreateReservation(ctx context.Context, actor *models.User, input ReservationInput) (*models.Reservation, error) {
	var reservation *models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// bookings of one area are serialized on the area row
		var area models.CommonArea
		if err := findByID(ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), &area, input.AreaID, "common area"); err != nil {
			return err
		}

		r, err := models.NewReservation(actor, &area, input.StartTime, input.EndTime, s.now())
		if err != nil {
			return err
		}

		var overlapping int64
		err = tx.Model(&models.Reservation{}).
			Where("area_id = ? AND status = ?", area.ID, string(models.ReservationConfirmed)).
			Where("start_time < ? AND end_time > ?", r.EndTime, r.StartTime).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return models.ValidationError("%s is already booked in that period", area.Name)
		}

		if err := tx.Create(r).Error; err != nil {
			return err
		}
		r.Area = &area
		reservation = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// 7 CancelReservation releases a booking; owner or administrator
func (s *ReservationService) CancelReservation(ctx context.Context, actor *models.User, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &reservation, id, "reservation"); err != nil {
			return err
		}
		if !policy.CanEdit(actor, &reservation) {
			return models.PermissionDenied("you can only cancel your own reservations")
		}
		if err := reservation.Cancel(s.now()); err != nil {
			return err
		}
		return compareAndSet(tx, &models.Reservation{}, reservation.ID, "status", string(models.ReservationConfirmed), map[string]interface{}{
			"status":       string(reservation.Status),
			"cancelled_at": reservation.CancelledAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (s *ReservationService) ensureUniqueName(ctx context.Context, name string, exceptID uint) error {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.CommonArea{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return models.ValidationError("a common area named %q already exists", name)
	}
	return nil
}
