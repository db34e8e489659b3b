package services

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/test/testutil"
)

func TestRedisServiceRoundTrip(t *testing.T) {
	server, client := testutil.NewRedis(t)
	svc := NewRedisServiceWithClient(client)
	ctx := context.Background()

	require.NoError(t, svc.Ping(ctx))
	require.NoError(t, svc.Set(ctx, "k", map[string]int{"reports": 3}, time.Minute))

	var got map[string]int
	require.NoError(t, svc.Get(ctx, "k", &got))
	assert.Equal(t, 3, got["reports"])

	server.FastForward(2 * time.Minute)
	assert.ErrorIs(t, svc.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, svc.Set(ctx, "gone", 1, 0))
	require.NoError(t, svc.Delete(ctx, "gone"))
	assert.False(t, server.Exists("gone"))
	assert.NoError(t, svc.Delete(ctx))
}

func TestDashboardServiceAdminStatsCached(t *testing.T) {
	db := testutil.NewDB(t)
	server, client := testutil.NewRedis(t)
	svc := NewDashboardService(db, testutil.Config(), NewRedisServiceWithClient(client))
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	resident := testutil.CreateUser(t, db, models.RoleResident)
	ctx := context.Background()

	testutil.CreateReport(t, db, resident, models.ReportReceived)
	testutil.CreateReport(t, db, resident, models.ReportInProgress)
	testutil.CreateFine(t, db, resident, 100)
	testutil.CreateFine(t, db, resident, 50.5)

	_, err := svc.AdminStats(ctx, resident)
	assert.ErrorIs(t, err, models.ErrPermissionDenied)

	stats, err := svc.AdminStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ReportsReceived)
	assert.Equal(t, int64(1), stats.ReportsInProgress)
	assert.Equal(t, int64(2), stats.PendingFines)
	assert.InDelta(t, 150.5, stats.PendingFinesAmount, 0.001)
	assert.True(t, server.Exists(adminStatsCacheKey))

	testutil.CreateReport(t, db, resident, models.ReportReceived)
	cached, err := svc.AdminStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.ReportsReceived)

	svc.InvalidateAdminStats(ctx)
	assert.False(t, server.Exists(adminStatsCacheKey))

	fresh, err := svc.AdminStats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.ReportsReceived)
}

func TestDashboardServiceResidentSummary(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewDashboardService(db, testutil.Config(), nil)
	admin := testutil.CreateUser(t, db, models.RoleAdministrator)
	resident := testutil.CreateUser(t, db, models.RoleResident)
	ctx := context.Background()

	testutil.CreateReport(t, db, resident, models.ReportReceived)
	testutil.CreateReport(t, db, resident, models.ReportResolved)
	testutil.CreateFine(t, db, resident, 40)
	testutil.CreateFine(t, db, admin, 99)

	announcements := NewAnnouncementService(db, testutil.Config())
	for i := 0; i < 7; i++ {
		_, err := announcements.CreateAnnouncement(ctx, admin, "Notice "+strings.Repeat("I", i+1), "Body")
		require.NoError(t, err)
	}

	summary, err := svc.ResidentSummary(ctx, resident)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.MyReports)
	assert.Equal(t, int64(1), summary.MyReceivedReports)
	assert.Equal(t, int64(1), summary.MyFines)
	assert.Equal(t, int64(1), summary.MyPendingFines)
	assert.InDelta(t, 40.0, summary.PendingTotal, 0.001)
	require.Len(t, summary.RecentAnnouncements, recentLimit)
	assert.Equal(t, "Notice IIIIIII", summary.RecentAnnouncements[0].Title)

	stats, err := svc.AdminStats(ctx, admin)
	require.NoError(t, err)
	assert.InDelta(t, 139.0, stats.PendingFinesAmount, 0.001)
	assert.NotPanics(t, func() { svc.InvalidateAdminStats(ctx) })
}

func TestPaymentServiceSimulated(t *testing.T) {
	svc := NewPaymentService(testutil.Config())
	ctx := context.Background()

	result, err := svc.Charge(ctx, ChargeRequest{FineID: 1, Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodSimulated, result.Method)
	assert.True(t, strings.HasPrefix(result.TransactionRef, "sim_"))

	result, err = svc.Charge(ctx, ChargeRequest{FineID: 1, Amount: 150, Method: " boleto "})
	require.NoError(t, err)
	assert.Equal(t, "boleto", result.Method)

	_, err = svc.Charge(ctx, ChargeRequest{FineID: 1, Amount: 150, CardToken: "tokn_test_123"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(15000), toMinorUnits(150))
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
	assert.Equal(t, int64(1050), toMinorUnits(10.5))
}

type countingDashboard struct {
	InterfaceDashboardService
	refreshed int32
}

func (d *countingDashboard) RefreshAdminStats(context.Context) (*AdminStats, error) {
	atomic.AddInt32(&d.refreshed, 1)
	return &AdminStats{}, nil
}

func TestSchedulerServiceJobs(t *testing.T) {
	db := testutil.NewDB(t)
	dashboard := &countingDashboard{}
	cfg := testutil.Config()
	cfg.DashboardRefreshSpec = "@every 1s"
	svc := NewSchedulerService(db, cfg, dashboard).(*SchedulerService)

	svc.RefreshDashboard()
	assert.Equal(t, int32(1), atomic.LoadInt32(&dashboard.refreshed))

	resident := testutil.CreateUser(t, db, models.RoleResident)
	alert, err := models.NewPanicAlert(resident, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(alert).Error)
	svc.now = testutil.FixedClock(time.Now().Add(time.Hour))
	assert.NotPanics(t, svc.RemindUnattendedAlerts)

	var extra int32
	require.NoError(t, svc.AddFunc("@every 1s", func() { atomic.AddInt32(&extra, 1) }))
	assert.Error(t, svc.AddFunc("not a spec", func() {}))

	require.NoError(t, svc.Start())
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&extra) > 0 && atomic.LoadInt32(&dashboard.refreshed) > 1
	}, 3*time.Second, 50*time.Millisecond)
	<-svc.Stop().Done()
}
