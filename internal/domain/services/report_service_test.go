package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/test/testutil"
)

func newReportService(t *testing.T) (*ReportService, *models.User, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	svc := NewReportService(db, testutil.Config()).(*ReportService)
	svc.now = testutil.FixedClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	return svc, testutil.CreateUser(t, db, models.RoleAdministrator), testutil.CreateUser(t, db, models.RoleResident)
}

func TestReportServiceResolveOnce(t *testing.T) {
	svc, admin, resident := newReportService(t)
	ctx := context.Background()

	report, err := svc.CreateReport(ctx, resident, ReportInput{
		Title:       "Broken streetlight near gate",
		Description: "The lamp at the main gate is off",
		Location:    "Main gate",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportReceived, report.Status)

	resolved, err := svc.ResolveReport(ctx, admin, report.ID, "Fixed by maintenance")
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolverID)
	assert.Equal(t, admin.ID, *resolved.ResolverID)

	_, err = svc.ResolveReport(ctx, admin, report.ID, "again")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	stored, err := svc.GetReport(ctx, resident, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, stored.Status)
	assert.Equal(t, "Fixed by maintenance", stored.AdminComment)
	require.NotNil(t, stored.ResolvedAt)
	assert.True(t, stored.ResolvedAt.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)))
}

func TestReportServiceResidentCannotResolve(t *testing.T) {
	svc, _, resident := newReportService(t)
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	_, err := svc.ResolveReport(context.Background(), resident, report.ID, "")
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

func TestReportServiceListVisibility(t *testing.T) {
	svc, admin, resident := newReportService(t)
	other := testutil.CreateUser(t, svc.DB, models.RoleResident)
	ctx := context.Background()

	testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)
	testutil.CreateReport(t, svc.DB, resident, models.ReportResolved)
	testutil.CreateReport(t, svc.DB, other, models.ReportReceived)

	all, page, err := svc.ListReports(ctx, admin, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), page.Total)

	own, _, err := svc.ListReports(ctx, resident, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 2)
	for _, r := range own {
		assert.Equal(t, resident.ID, r.OwnerID)
	}

	received, _, err := svc.ListReports(ctx, admin, ReportFilter{Status: models.ReportReceived})
	require.NoError(t, err)
	assert.Len(t, received, 2)

	_, _, err = svc.ListReports(ctx, admin, ReportFilter{Status: "archived"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReportServiceGetOtherResidentDenied(t *testing.T) {
	svc, _, resident := newReportService(t)
	other := testutil.CreateUser(t, svc.DB, models.RoleResident)
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	_, err := svc.GetReport(context.Background(), other, report.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.GetReport(context.Background(), other, report.ID+100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportServiceUpdateAfterClose(t *testing.T) {
	svc, admin, resident := newReportService(t)
	ctx := context.Background()
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	input := ReportInput{Title: "Streetlight still broken", Description: "Still off", Location: "Main gate"}
	updated, err := svc.UpdateReport(ctx, resident, report.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Streetlight still broken", updated.Title)

	_, err = svc.RejectReport(ctx, admin, report.ID, "Duplicate of an earlier report")
	require.NoError(t, err)

	_, err = svc.UpdateReport(ctx, resident, report.ID, input)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	_, err = svc.UpdateReport(ctx, admin, report.ID, ReportInput{Title: "Closed", Description: "Closed", Location: "Gate"})
	assert.NoError(t, err)

	err = svc.DeleteReport(ctx, resident, report.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)
}

func TestReportServiceDeleteRemovesComments(t *testing.T) {
	svc, _, resident := newReportService(t)
	ctx := context.Background()
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	comment, err := models.NewComment(resident, "Any news?", &report.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.DB.Create(comment).Error)

	require.NoError(t, svc.DeleteReport(ctx, resident, report.ID))

	var count int64
	require.NoError(t, svc.DB.Model(&models.Comment{}).Where("report_id = ?", report.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.GetReport(ctx, resident, report.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestReportServiceStartProgressAndComment(t *testing.T) {
	svc, admin, resident := newReportService(t)
	ctx := context.Background()
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	_, err := svc.StartProgress(ctx, resident, report.ID)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	started, err := svc.StartProgress(ctx, admin, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportInProgress, started.Status)

	commented, err := svc.AddAdminComment(ctx, admin, report.ID, "Technician booked for Monday")
	require.NoError(t, err)
	assert.Equal(t, models.ReportInProgress, commented.Status)
	assert.Equal(t, "Technician booked for Monday", commented.AdminComment)
}

func TestCompareAndSetDetectsConcurrentChange(t *testing.T) {
	svc, _, resident := newReportService(t)
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	require.NoError(t, svc.DB.Model(&models.Report{}).Where("id = ?", report.ID).
		Update("status", string(models.ReportResolved)).Error)

	err := compareAndSet(svc.DB, &models.Report{}, report.ID, "status", string(models.ReportReceived), map[string]interface{}{
		"status": string(models.ReportRejected),
	})
	assert.ErrorIs(t, err, models.ErrStaleState)

	var stored models.Report
	require.NoError(t, svc.DB.First(&stored, report.ID).Error)
	assert.Equal(t, models.ReportResolved, stored.Status)
}

func TestReportServiceResolveAfterRejectClearsReason(t *testing.T) {
	svc, admin, resident := newReportService(t)
	ctx := context.Background()
	report := testutil.CreateReport(t, svc.DB, resident, models.ReportReceived)

	rejected, err := svc.RejectReport(ctx, admin, report.ID, "Duplicate of an earlier report")
	require.NoError(t, err)
	assert.Equal(t, "Duplicate of an earlier report", rejected.RejectionReason)

	_, err = svc.ResolveReport(ctx, admin, report.ID, "Not a duplicate after all, fixed")
	require.NoError(t, err)

	var stored models.Report
	require.NoError(t, svc.DB.First(&stored, report.ID).Error)
	assert.Equal(t, models.ReportResolved, stored.Status)
	assert.Empty(t, stored.RejectionReason)
	assert.Equal(t, "Not a duplicate after all, fixed", stored.AdminComment)
}
