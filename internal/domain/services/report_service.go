package services

import (
	"context"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/domain/policy"
	"vizinho-http-service/internal/infrastructure/config"
)

// InterfaceReportService defines the report service interface
type InterfaceReportService interface {
	ListReports(ctx context.Context, actor *models.User, filter ReportFilter) ([]models.Report, models.PaginationResult, error)
	GetReport(ctx context.Context, actor *models.User, id uint) (*models.Report, error)
	CreateReport(ctx context.Context, actor *models.User, input ReportInput) (*models.Report, error)
	UpdateReport(ctx context.Context, actor *models.User, id uint, input ReportInput) (*models.Report, error)
	DeleteReport(ctx context.Context, actor *models.User, id uint) error
	StartProgress(ctx context.Context, actor *models.User, id uint) (*models.Report, error)
	ResolveReport(ctx context.Context, actor *models.User, id uint, comment string) (*models.Report, error)
	RejectReport(ctx context.Context, actor *models.User, id uint, reason string) (*models.Report, error)
	AddAdminComment(ctx context.Context, actor *models.User, id uint, text string) (*models.Report, error)
}

// ReportInput carries the user-editable report fields
type ReportInput struct {
	Title       string
	Description string
	Location    string
}

// ReportFilter narrows report listings
type ReportFilter struct {
	models.PaginationQuery
	Status models.ReportStatus
}

// ReportService drives the incident report lifecycle
type ReportService struct {
	DB     *gorm.DB
	Config *config.Config
	now    Clock
}

// NewReportService creates a new report service
func NewReportService(db *gorm.DB, cfg *config.Config) InterfaceReportService {
	return &ReportService{
		DB:     db,
		Config: cfg,
		now:    systemClock,
	}
}

// 1 ListReports returns every report for administrators and the own reports for residents, newest first
func (s *ReportService) ListReports(ctx context.Context, actor *models.User, filter ReportFilter) ([]models.Report, models.PaginationResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.PaginationResult{}, models.ValidationError("unknown report status %q", filter.Status)
	}

	query := s.DB.WithContext(ctx).Model(&models.Report{})
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

	var reports []models.Report
	page, q := paginate(query.Order("created_at DESC").Order("id DESC"), filter.PaginationQuery)
	if err := page.Preload("Owner").Find(&reports).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}
	return reports, models.NewPaginationResult(total, q.PageNum, q.PageSize), nil
}

// 2 GetReport loads a report visible to actor
func (s *ReportService) GetReport(ctx context.Context, actor *models.User, id uint) (*models.Report, error) {
	var report models.Report
	if err := findByID(ctx, s.DB.Preload("Owner").Preload("Resolver"), &report, id, "report"); err != nil {
		return nil, err
	}
	if !policy.CanView(actor, &report) {
		return nil, models.PermissionDenied("you can only view your own reports")
	}
	return &report, nil
}

// 3 CreateReport files a new report owned by actor
func (s *ReportService) CreateReport(ctx context.Context, actor *models.User, input ReportInput) (*models.Report, error) {
	report, err := models.NewReport(actor, input.Title, input.Description, input.Location)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

// 4 UpdateReport edits the details; owners lose the right once the report is closed
func (s *ReportService) UpdateReport(ctx context.Context, actor *models.User, id uint, input ReportInput) (*models.Report, error) {
	var report models.Report
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &report, id, "report"); err != nil {
			return err
		}
		if !policy.CanEditReport(actor, &report) {
			return models.PermissionDenied("you cannot edit this report")
		}
		if err := report.UpdateDetails(input.Title, input.Description, input.Location); err != nil {
			return err
		}
		return compareAndSet(tx, &models.Report{}, report.ID, "status", string(report.Status), map[string]interface{}{
			"title":       report.Title,
			"description": report.Description,
			"location":    report.Location,
		})
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// 5 DeleteReport removes the report and its comments
func (s *ReportService) DeleteReport(ctx context.Context, actor *models.User, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := findByID(ctx, tx, &report, id, "report"); err != nil {
			return err
		}
		if !policy.CanEditReport(actor, &report) {
			return models.PermissionDenied("you cannot delete this report")
		}
		if err := tx.Where("report_id = ?", report.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&report).Error
	})
}

// 6 StartProgress moves a received report to in_progress
func (s *ReportService) StartProgress(ctx context.Context, actor *models.User, id uint) (*models.Report, error) {
	return s.transition(ctx, id, func(r *models.Report) error {
		if !actor.IsAdmin() {
			return models.PermissionDenied("only administrators can start work on reports")
		}
		return r.StartProgress()
	})
}

// 7 ResolveReport closes the report as resolved
func (s *ReportService) ResolveReport(ctx context.Context, actor *models.User, id uint, comment string) (*models.Report, error) {
	now := s.now()
	return s.transition(ctx, id, func(r *models.Report) error {
		return r.Resolve(actor, comment, now)
	})
}

// 8 RejectReport closes the report as rejected
func (s *ReportService) RejectReport(ctx context.Context, actor *models.User, id uint, reason string) (*models.Report, error) {
	now := s.now()
	return s.transition(ctx, id, func(r *models.Report) error {
		return r.Reject(actor, reason, now)
	})
}

// 9 AddAdminComment sets the administrator note
func (s *ReportService) AddAdminComment(ctx context.Context, actor *models.User, id uint, text string) (*models.Report, error) {
	return s.transition(ctx, id, func(r *models.Report) error {
		return r.AddAdminComment(actor, text)
	})
}

// transition loads the report, applies change and persists it only if the
// stored status is still the one that was loaded
func (s *ReportService) transition(ctx context.Context, id uint, change func(*models.Report) error) (*models.Report, error) {
	var report models.Report
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findByID(ctx, tx, &report, id, "report"); err != nil {
			return err
		}
		previous := report.Status
		if err := change(&report); err != nil {
			return err
		}
		return compareAndSet(tx, &models.Report{}, report.ID, "status", string(previous), map[string]interface{}{
			"status":           string(report.Status),
			"resolver_id":      report.ResolverID,
			"resolved_at":      report.ResolvedAt,
			"admin_comment":    report.AdminComment,
			"rejection_reason": report.RejectionReason,
		})
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}
