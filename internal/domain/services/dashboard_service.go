package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

const (
	adminStatsCacheKey = "vizinho:dashboard:admin"
	adminStatsTTL      = 10 * time.Minute
	recentLimit        = 5
)

// AdminStats summarises the community for administrators
type AdminStats struct {
	ReportsReceived     int64                 `json:"reports_received"`
	ReportsInProgress   int64                 `json:"reports_in_progress"`
	PendingFines        int64                 `json:"pending_fines"`
	PendingFinesAmount  float64               `json:"pending_fines_amount"`
	ActivePanicAlerts   int64                 `json:"active_panic_alerts"`
	UnfoundLostItems    int64                 `json:"unfound_lost_items"`
	RecentAnnouncements []models.Announcement `json:"recent_announcements"`
	GeneratedAt         time.Time             `json:"generated_at"`
}

// ResidentSummary is the home page of a resident
type ResidentSummary struct {
	MyReports           int64                 `json:"my_reports"`
	MyReceivedReports   int64                 `json:"my_received_reports"`
	MyFines             int64                 `json:"my_fines"`
	MyPendingFines      int64                 `json:"my_pending_fines"`
	PendingTotal        float64               `json:"pending_total"`
	RecentAnnouncements []models.Announcement `json:"recent_announcements"`
}

// InterfaceDashboardService defines the dashboard service interface
type InterfaceDashboardService interface {
	AdminStats(ctx context.Context, actor *models.User) (*AdminStats, error)
	ResidentSummary(ctx context.Context, actor *models.User) (*ResidentSummary, error)
	RefreshAdminStats(ctx context.Context) (*AdminStats, error)
	InvalidateAdminStats(ctx context.Context)
}

// DashboardService computes the dashboards; admin stats are cached in Redis when configured
type DashboardService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
	now    Clock
}

// NewDashboardService creates a new dashboard service; redis may be nil
func NewDashboardService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceDashboardService {
	return &DashboardService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
		now:    systemClock,
	}
}

// 1 AdminStats returns the cached stats, computing them on a miss
func (s *DashboardService) AdminStats(ctx context.Context, actor *models.User) (*AdminStats, error) {
	if !actor.IsAdmin() {
		return nil, models.PermissionDenied("only administrators can view community statistics")
	}

	if s.Redis != nil {
		var cached AdminStats
		err := s.Redis.Get(ctx, adminStatsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			Logger.Warning("reading dashboard cache failed: %v", err)
		}
	}
	return s.RefreshAdminStats(ctx)
}

// 2 RefreshAdminStats recomputes the stats and stores them in the cache
func (s *DashboardService) RefreshAdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.computeAdminStats(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, adminStatsCacheKey, stats, adminStatsTTL); err != nil {
			Logger.Warning("writing dashboard cache failed: %v", err)
		}
	}
	return stats, nil
}

// 3 InvalidateAdminStats drops the cached stats
func (s *DashboardService) InvalidateAdminStats(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Delete(ctx, adminStatsCacheKey); err != nil {
		Logger.Warning("invalidating dashboard cache failed: %v", err)
	}
}

// 4 ResidentSummary counts the records of actor
func (s *DashboardService) ResidentSummary(ctx context.Context, actor *models.User) (*ResidentSummary, error) {
	db := s.DB.WithContext(ctx)
	summary := &ResidentSummary{}

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&summary.MyReports, &models.Report{}, "owner_id = ?", []interface{}{actor.ID}},
		{&summary.MyReceivedReports, &models.Report{}, "owner_id = ? AND status = ?", []interface{}{actor.ID, string(models.ReportReceived)}},
		{&summary.MyFines, &models.Fine{}, "owner_id = ?", []interface{}{actor.ID}},
		{&summary.MyPendingFines, &models.Fine{}, "owner_id = ? AND status = ?", []interface{}{actor.ID, string(models.FinePending)}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.Fine{}).
		Where("owner_id = ? AND status = ?", actor.ID, string(models.FinePending)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.PendingTotal).Error; err != nil {
		return nil, err
	}

	recent, err := s.recentAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	summary.RecentAnnouncements = recent
	return summary, nil
}

func (s *DashboardService) computeAdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.DB.WithContext(ctx)
	stats := &AdminStats{GeneratedAt: s.now()}

	if err := db.Model(&models.Report{}).Where("status = ?", string(models.ReportReceived)).Count(&stats.ReportsReceived).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Report{}).Where("status = ?", string(models.ReportInProgress)).Count(&stats.ReportsInProgress).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Fine{}).Where("status = ?", string(models.FinePending)).Count(&stats.PendingFines).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Fine{}).
		Where("status = ?", string(models.FinePending)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.PendingFinesAmount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.PanicAlert{}).Where("active = ?", true).Count(&stats.ActivePanicAlerts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.LostItem{}).Where("found = ?", false).Count(&stats.UnfoundLostItems).Error; err != nil {
		return nil, err
	}

	recent, err := s.recentAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	stats.RecentAnnouncements = recent
	return stats, nil
}

func (s *DashboardService) recentAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := s.DB.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(recentLimit).
		Find(&announcements).Error
	return announcements, err
}
