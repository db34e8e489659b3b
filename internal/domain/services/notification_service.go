package services

import (
	"context"
	"time"

	"vizinho-http-service/internal/domain/models"
	Logger "vizinho-http-service/pkg/logger"
)

// PanicChannel is the Redis channel panic events are published on
const PanicChannel = "vizinho:panic-alerts"

// PanicEvent is the payload sent to administrators
type PanicEvent struct {
	Event     string    `json:"event"`
	AlertID   uint      `json:"alert_id"`
	OwnerID   uint      `json:"owner_id"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// InterfaceNotificationService defines the notification side channel
type InterfaceNotificationService interface {
	NotifyPanic(ctx context.Context, alert *models.PanicAlert, owner *models.User)
	NotifyPanicDeactivated(ctx context.Context, alert *models.PanicAlert)
}

// NotificationService logs every event and publishes it on Redis when available.
// Delivery failures are logged and swallowed.
type NotificationService struct {
	Redis InterfaceRedisService
	now   Clock
}

// NewNotificationService creates a new notification service; redis may be nil
func NewNotificationService(redis InterfaceRedisService) InterfaceNotificationService {
	return &NotificationService{Redis: redis, now: systemClock}
}

// 1 NotifyPanic tells administrators that a panic alert was raised
func (s *NotificationService) NotifyPanic(ctx context.Context, alert *models.PanicAlert, owner *models.User) {
	event := PanicEvent{
		Event:     "panic_activated",
		AlertID:   alert.ID,
		OwnerID:   alert.OwnerID,
		Message:   alert.Message,
		Timestamp: s.now(),
	}
	if owner != nil {
		event.Username = owner.Username
	}
	Logger.Warning("PANIC alert %d raised by user %d (%s): %s", alert.ID, alert.OwnerID, event.Username, alert.Message)
	s.publish(ctx, event)
}

// 2 NotifyPanicDeactivated tells administrators that an alert was switched off
func (s *NotificationService) NotifyPanicDeactivated(ctx context.Context, alert *models.PanicAlert) {
	event := PanicEvent{
		Event:     "panic_deactivated",
		AlertID:   alert.ID,
		OwnerID:   alert.OwnerID,
		Message:   alert.Message,
		Timestamp: s.now(),
	}
	Logger.Info("panic alert %d deactivated", alert.ID)
	s.publish(ctx, event)
}

func (s *NotificationService) publish(ctx context.Context, event PanicEvent) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Publish(ctx, PanicChannel, event); err != nil {
		Logger.Error("publishing %s for alert %d failed: %v", event.Event, event.AlertID, err)
	}
}
