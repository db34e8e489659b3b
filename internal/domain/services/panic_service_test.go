package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/test/testutil"
)

type recordingNotifier struct {
	raised      []uint
	deactivated []uint
}

func (n *recordingNotifier) NotifyPanic(_ context.Context, alert *models.PanicAlert, _ *models.User) {
	n.raised = append(n.raised, alert.ID)
}

func (n *recordingNotifier) NotifyPanicDeactivated(_ context.Context, alert *models.PanicAlert) {
	n.deactivated = append(n.deactivated, alert.ID)
}

func newPanicService(t *testing.T) (*PanicService, *recordingNotifier, *models.User, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	notifier := &recordingNotifier{}
	svc := NewPanicService(db, testutil.Config(), notifier).(*PanicService)
	return svc, notifier, testutil.CreateUser(t, db, models.RoleAdministrator), testutil.CreateUser(t, db, models.RoleResident)
}

func TestPanicServiceLifecycle(t *testing.T) {
	svc, notifier, admin, resident := newPanicService(t)
	ctx := context.Background()

	alert, err := svc.CreateAlert(ctx, resident, "  ")
	require.NoError(t, err)
	assert.True(t, alert.Active)
	assert.Equal(t, models.DefaultPanicMessage, alert.Message)
	assert.Equal(t, []uint{alert.ID}, notifier.raised)

	_, err = svc.DeactivateAlert(ctx, resident, alert.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	off, err := svc.DeactivateAlert(ctx, admin, alert.ID)
	require.NoError(t, err)
	assert.False(t, off.Active)
	require.NotNil(t, off.DeactivatedByID)
	assert.Equal(t, admin.ID, *off.DeactivatedByID)
	assert.Equal(t, []uint{alert.ID}, notifier.deactivated)

	_, err = svc.DeactivateAlert(ctx, admin, alert.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Len(t, notifier.deactivated, 1)

	_, err = svc.DeactivateAlert(ctx, admin, alert.ID+10)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPanicServiceListVisibility(t *testing.T) {
	svc, _, admin, resident := newPanicService(t)
	other := testutil.CreateUser(t, svc.DB, models.RoleResident)
	ctx := context.Background()

	first, err := svc.CreateAlert(ctx, resident, "Someone is trying the door")
	require.NoError(t, err)
	_, err = svc.CreateAlert(ctx, other, "Smoke in the garage")
	require.NoError(t, err)
	_, err = svc.DeactivateAlert(ctx, admin, first.ID)
	require.NoError(t, err)

	all, _, err := svc.ListAlerts(ctx, admin, PanicFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, _, err := svc.ListAlerts(ctx, admin, PanicFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Smoke in the garage", active[0].Message)

	own, _, err := svc.ListAlerts(ctx, resident, PanicFilter{})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, first.ID, own[0].ID)
}

func TestNotificationServicePublishesOnRedis(t *testing.T) {
	_, client := testutil.NewRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, PanicChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	svc := NewNotificationService(NewRedisServiceWithClient(client)).(*NotificationService)
	svc.now = testutil.FixedClock(time.Date(2026, 7, 1, 23, 15, 0, 0, time.UTC))

	owner := &models.User{BaseModel: models.BaseModel{ID: 4}, Username: "resident-4"}
	alert := &models.PanicAlert{BaseModel: models.BaseModel{ID: 12}, OwnerID: 4, Message: "Help at block B", Active: true}
	svc.NotifyPanic(ctx, alert, owner)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event PanicEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "panic_activated", event.Event)
	assert.Equal(t, uint(12), event.AlertID)
	assert.Equal(t, uint(4), event.OwnerID)
	assert.Equal(t, "resident-4", event.Username)
	assert.Equal(t, "Help at block B", event.Message)

	svc.NotifyPanicDeactivated(ctx, alert)
	msg, err = sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "panic_deactivated", event.Event)
}

func TestNotificationServiceWithoutRedis(t *testing.T) {
	svc := NewNotificationService(nil)
	alert := &models.PanicAlert{BaseModel: models.BaseModel{ID: 1}, OwnerID: 2, Message: "Help", Active: true}

	assert.NotPanics(t, func() {
		svc.NotifyPanic(context.Background(), alert, nil)
		svc.NotifyPanicDeactivated(context.Background(), alert)
	})
}
