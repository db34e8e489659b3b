package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/infrastructure/config"
	Logger "vizinho-http-service/pkg/logger"
)

// ServiceContainer wires every service and hands them out by name
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// infrastructure
	redisService        services.InterfaceRedisService
	notificationService services.InterfaceNotificationService
	paymentService      services.InterfacePaymentService
	schedulerService    services.InterfaceSchedulerService

	// auth and users
	jwtService  services.InterfaceJWTService
	userService services.InterfaceUserService

	// community
	reportService       services.InterfaceReportService
	fineService         services.InterfaceFineService
	panicService        services.InterfacePanicService
	lostItemService     services.InterfaceLostItemService
	announcementService services.InterfaceAnnouncementService
	commentService      services.InterfaceCommentService
	reservationService  services.InterfaceReservationService
	dashboardService    services.InterfaceDashboardService

	mu sync.RWMutex
}

// NewServiceContainer builds the container. redisService may be nil when Redis is disabled.
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisService services.InterfaceRedisService) *ServiceContainer {
	if db == nil {
		panic("database connection is nil")
	}
	if cfg == nil {
		panic("config is nil")
	}

	if redisService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisService.Ping(ctx); err != nil {
			Logger.Warning("redis ping failed: %v, continuing without cache and notifications", err)
			redisService = nil
		}
	}

	c := &ServiceContainer{
		db:           db,
		config:       cfg,
		redisService: redisService,
	}
	c.initializeServices()
	return c
}

func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notificationService = services.NewNotificationService(c.redisService)
	c.paymentService = services.NewPaymentService(c.config)

	c.jwtService = services.NewJWTService(c.config, c.db)
	c.userService = services.NewUserService(c.db, c.config)

	c.reportService = services.NewReportService(c.db, c.config)
	c.fineService = services.NewFineService(c.db, c.config, c.paymentService, services.LogPaymentHook{})
	c.panicService = services.NewPanicService(c.db, c.config, c.notificationService)
	c.lostItemService = services.NewLostItemService(c.db, c.config)
	c.announcementService = services.NewAnnouncementService(c.db, c.config)
	c.commentService = services.NewCommentService(c.db, c.config)
	c.reservationService = services.NewReservationService(c.db, c.config)
	c.dashboardService = services.NewDashboardService(c.db, c.config, c.redisService)

	c.schedulerService = services.NewSchedulerService(c.db, c.config, c.dashboardService)
}

// GetService returns the service registered under name, or nil
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "redis":
		return c.redisService
	case "notification":
		return c.notificationService
	case "payment":
		return c.paymentService
	case "scheduler":
		return c.schedulerService
	case "jwt":
		return c.jwtService
	case "user":
		return c.userService
	case "report":
		return c.reportService
	case "fine":
		return c.fineService
	case "panic":
		return c.panicService
	case "lost_item":
		return c.lostItemService
	case "announcement":
		return c.announcementService
	case "comment":
		return c.commentService
	case "reservation":
		return c.reservationService
	case "dashboard":
		return c.dashboardService
	default:
		return nil
	}
}

// Close releases the connections held by the container
func (c *ServiceContainer) Close() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	<-c.schedulerService.Stop().Done()
	if c.redisService != nil {
		if err := c.redisService.Close(); err != nil {
			Logger.Warning("closing redis failed: %v", err)
		}
	}
}
