package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

const (
	jobTimeout          = 30 * time.Second
	unattendedAlertSpec = "@every 1m"
	unattendedAlertAge  = 15 * time.Minute
)

// InterfaceSchedulerService defines the background job scheduler
type InterfaceSchedulerService interface {
	Start() error
	Stop() context.Context
	AddFunc(spec string, job func()) error
	RefreshDashboard()
	RemindUnattendedAlerts()
}

// SchedulerService runs periodic jobs on a cron
type SchedulerService struct {
	DB        *gorm.DB
	Config    *config.Config
	Dashboard InterfaceDashboardService
	cron      *cron.Cron
	now       Clock
}

// NewSchedulerService creates a new scheduler; jobs are registered by Start
func NewSchedulerService(db *gorm.DB, cfg *config.Config, dashboard InterfaceDashboardService) InterfaceSchedulerService {
	return &SchedulerService{
		DB:        db,
		Config:    cfg,
		Dashboard: dashboard,
		cron:      cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		now:       systemClock,
	}
}

// 1 Start registers the jobs and starts the cron
func (s *SchedulerService) Start() error {
	spec := s.Config.DashboardRefreshSpec
	if spec == "" {
		spec = "@every 5m"
	}
	if _, err := s.cron.AddFunc(spec, s.RefreshDashboard); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(unattendedAlertSpec, s.RemindUnattendedAlerts); err != nil {
		return err
	}
	s.cron.Start()
	Logger.Info("scheduler started, dashboard refresh %q", spec)
	return nil
}

// 2 Stop halts the cron; the returned context is done once running jobs finish
func (s *SchedulerService) Stop() context.Context {
	return s.cron.Stop()
}

// 3 AddFunc registers an extra job, e.g. housekeeping owned by the HTTP layer
func (s *SchedulerService) AddFunc(spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, job)
	return err
}

// 4 RefreshDashboard recomputes the cached admin statistics
func (s *SchedulerService) RefreshDashboard() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.Dashboard.RefreshAdminStats(ctx); err != nil {
		Logger.Error("dashboard refresh failed: %v", err)
	}
}

// 5 RemindUnattendedAlerts logs panic alerts that stayed active for too long
func (s *SchedulerService) RemindUnattendedAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var alerts []models.PanicAlert
	err := s.DB.WithContext(ctx).
		Where("active = ? AND created_at < ?", true, s.now().Add(-unattendedAlertAge)).
		Order("created_at ASC").
		Find(&alerts).Error
	if err != nil {
		Logger.Error("checking unattended panic alerts failed: %v", err)
		return
	}
	for _, alert := range alerts {
		Logger.Warning("panic alert %d from user %d still active since %s",
			alert.ID, alert.OwnerID, alert.CreatedAt.Format(time.RFC3339))
	}
}
