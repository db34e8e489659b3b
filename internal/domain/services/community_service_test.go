package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/test/testutil"
)

func TestLostItemServiceOrderAndMarkFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewLostItemService(db, testutil.Config())
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	owner := testutil.CreateUser(t, db, models.RoleResident)
	other := testutil.CreateUser(t, db, models.RoleResident)
	ctx := context.Background()

	keys, err := svc.CreateItem(ctx, owner, LostItemInput{Title: "Car keys", Description: "Blue keyring near the pool"})
	require.NoError(t, err)
	wallet, err := svc.CreateItem(ctx, owner, LostItemInput{Title: "Wallet", Description: "Brown leather wallet"})
	require.NoError(t, err)
	cat, err := svc.CreateItem(ctx, other, LostItemInput{Title: "Cat", Description: "Grey cat with a red collar"})
	require.NoError(t, err)

	_, err = svc.MarkFound(ctx, other, keys.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	found, err := svc.MarkFound(ctx, owner, keys.ID)
	require.NoError(t, err)
	assert.True(t, found.Found)
	require.NotNil(t, found.FoundAt)

	_, err = svc.MarkFound(ctx, admin, keys.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	items, page, err := svc.ListItems(ctx, models.PaginationQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, items, 3)
	assert.Equal(t, []uint{cat.ID, wallet.ID, keys.ID}, []uint{items[0].ID, items[1].ID, items[2].ID})

	_, err = svc.UpdateItem(ctx, other, wallet.ID, LostItemInput{Title: "Mine", Description: "Mine"})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.UpdateItem(ctx, owner, wallet.ID, LostItemInput{Title: "Wallet", Description: ""})
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, svc.DeleteItem(ctx, admin, wallet.ID))
	_, err = svc.GetItem(ctx, wallet.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentServiceThreads(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCommentService(db, testutil.Config())
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	owner := testutil.CreateUser(t, db, models.RoleResident)
	other := testutil.CreateUser(t, db, models.RoleResident)
	report := testutil.CreateReport(t, db, owner, models.ReportReceived)
	ctx := context.Background()

	first, err := svc.CreateComment(ctx, owner, CommentParent{ReportID: &report.ID}, "Any update on this?")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, admin, CommentParent{ReportID: &report.ID}, "Technician booked")
	require.NoError(t, err)

	thread, err := svc.ListComments(ctx, owner, CommentParent{ReportID: &report.ID})
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, first.ID, thread[0].ID)

	_, err = svc.ListComments(ctx, other, CommentParent{ReportID: &report.ID})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.ListComments(ctx, owner, CommentParent{})
	assert.ErrorIs(t, err, models.ErrValidation)

	missing := report.ID + 100
	_, err = svc.CreateComment(ctx, owner, CommentParent{ReportID: &missing}, "Hello there")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.CreateComment(ctx, owner, CommentParent{ReportID: &report.ID, AnnouncementID: &report.ID}, "Both parents")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.EditComment(ctx, other, first.ID, "Not mine")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	edited, err := svc.EditComment(ctx, owner, first.ID, "Any update on this one?")
	require.NoError(t, err)
	assert.True(t, edited.Edited)
	assert.Equal(t, "Any update on this one?", edited.Content)

	require.NoError(t, svc.DeleteComment(ctx, admin, first.ID))
	thread, err = svc.ListComments(ctx, admin, CommentParent{ReportID: &report.ID})
	require.NoError(t, err)
	assert.Len(t, thread, 1)
}

func TestAnnouncementServiceAdminOnlyEdits(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAnnouncementService(db, testutil.Config())
	comments := NewCommentService(db, testutil.Config())
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	resident := testutil.CreateUser(t, db, models.RoleResident)
	ctx := context.Background()

	post, err := svc.CreateAnnouncement(ctx, resident, "Garage sale", "Saturday at block C")
	require.NoError(t, err)

	_, err = svc.UpdateAnnouncement(ctx, resident, post.ID, "Garage sale moved", "Sunday at block C")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	updated, err := svc.UpdateAnnouncement(ctx, admin, post.ID, "Garage sale moved", "Sunday at block C")
	require.NoError(t, err)
	assert.Equal(t, "Garage sale moved", updated.Title)

	_, err = comments.CreateComment(ctx, resident, CommentParent{AnnouncementID: &post.ID}, "See you there")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAnnouncement(ctx, resident, post.ID), models.ErrPermissionDenied)
	require.NoError(t, svc.DeleteAnnouncement(ctx, admin, post.ID))

	list, page, err := svc.ListAnnouncements(ctx, models.PaginationQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, page.Total)

	var orphaned int64
	require.NoError(t, db.Model(&models.Comment{}).Where("announcement_id = ?", post.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestReservationServiceRejectsOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	svc := NewReservationService(db, testutil.Config()).(*ReservationService)
	svc.now = testutil.FixedClock(now)
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	resident := testutil.CreateUser(t, db, models.RoleResident)
	neighbour := testutil.CreateUser(t, db, models.RoleResident)
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, resident, CommonAreaInput{Name: "Party room", Capacity: 40})
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	area, err := svc.CreateArea(ctx, admin, CommonAreaInput{Name: "Party room", Description: "Ground floor", Capacity: 40})
	require.NoError(t, err)

	_, err = svc.CreateArea(ctx, admin, CommonAreaInput{Name: "Party room", Capacity: 10})
	assert.ErrorIs(t, err, models.ErrValidation)

	start := now.Add(48 * time.Hour)
	booking, err := svc.CreateReservation(ctx, resident, ReservationInput{AreaID: area.ID, StartTime: start, EndTime: start.Add(4 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, booking.Status)

	_, err = svc.CreateReservation(ctx, neighbour, ReservationInput{AreaID: area.ID, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(6 * time.Hour)})
	assert.ErrorIs(t, err, models.ErrValidation)

	adjacent, err := svc.CreateReservation(ctx, neighbour, ReservationInput{AreaID: area.ID, StartTime: start.Add(4 * time.Hour), EndTime: start.Add(6 * time.Hour)})
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, neighbour, ReservationInput{AreaID: area.ID, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CancelReservation(ctx, neighbour, booking.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	cancelled, err := svc.CancelReservation(ctx, resident, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)

	_, err = svc.CancelReservation(ctx, admin, booking.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.CreateReservation(ctx, neighbour, ReservationInput{AreaID: area.ID, StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)

	own, _, err := svc.ListReservations(ctx, resident, ReservationFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, _, err := svc.ListReservations(ctx, admin, ReservationFilter{AreaID: area.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.NotEqual(t, adjacent.ID, all[0].ID)

	require.NoError(t, svc.DeleteArea(ctx, admin, area.ID))
	var left int64
	require.NoError(t, db.Model(&models.Reservation{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestReservationServiceConcurrentBookingsOfOneSlot(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	svc := NewReservationService(db, testutil.Config()).(*ReservationService)
	svc.now = testutil.FixedClock(now)
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	ctx := context.Background()

	area, err := svc.CreateArea(ctx, admin, CommonAreaInput{Name: "Barbecue area", Capacity: 20})
	require.NoError(t, err)

	residents := make([]*models.User, 4)
	for i := range residents {
		residents[i] = testutil.CreateUser(t, db, models.RoleResident)
	}

	start := now.Add(24 * time.Hour)
	var wg sync.WaitGroup
	errs := make([]error, len(residents))
	for i, resident := range residents {
		wg.Add(1)
		go func(i int, resident *models.User) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(ctx, resident, ReservationInput{AreaID: area.ID, StartTime: start, EndTime: start.Add(3 * time.Hour)})
		}(i, resident)
	}
	wg.Wait()

	booked := 0
	for _, err := range errs {
		if err == nil {
			booked++
			continue
		}
		assert.ErrorIs(t, err, models.ErrValidation)
	}
	assert.Equal(t, 1, booked)

	var confirmed int64
	require.NoError(t, db.Model(&models.Reservation{}).Where("status = ?", string(models.ReservationConfirmed)).Count(&confirmed).Error)
	assert.Equal(t, int64(1), confirmed)
}
