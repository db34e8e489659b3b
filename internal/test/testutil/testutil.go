// Package testutil builds throwaway databases, configs and users for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vizinho-http-service/internal/domain/models"
	"vizinho-http-service/internal/infrastructure/config"
	"vizinho-http-service/internal/infrastructure/database"
)

const AdminPassword = "admin123"

var userSeq uint64

// Config returns a local configuration backed by an in-memory SQLite database
func Config() *config.Config {
	return &config.Config{
		EnvType:              "LOCAL",
		DBDriver:             "sqlite",
		DBPath:               ":memory:",
		DBMigrationMode:      "auto",
		ServerPort:           "0",
		CORSAllowedOrigins:   []string{"http://localhost:3000"},
		JWTSecretKey:         "test-secret",
		JWTExpirationHours:   24,
		PaymentCurrency:      "thb",
		DashboardRefreshSpec: "@every 5m",
		LogDir:               "logs",
		DefaultAdminPassword: AdminPassword,
	}
}

// NewDB opens a migrated in-memory database that lives as long as the test.
// The pool holds a single connection so every query sees the same database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(Config(), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewRedis starts a miniredis server and returns a client connected to it
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

// CreateUser inserts a user with a profile and the password "secret123"
func CreateUser(t testing.TB, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	n := atomic.AddUint64(&userSeq, 1)
	user := &models.User{
		Username: fmt.Sprintf("%s-%d", role, n),
		Password: "secret123",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID}).Error)
	return user
}

// CreateReport inserts a report owned by owner in the given status
func CreateReport(t testing.TB, db *gorm.DB, owner *models.User, status models.ReportStatus) *models.Report {
	t.Helper()

	report, err := models.NewReport(owner, "Broken streetlight near gate", "The lamp is off at night", "Main gate")
	require.NoError(t, err)
	report.Status = status
	require.NoError(t, db.Create(report).Error)
	return report
}

// CreateFine inserts a pending fine for owner
func CreateFine(t testing.TB, db *gorm.DB, owner *models.User, amount float64) *models.Fine {
	t.Helper()

	fine, err := models.NewFine(owner, amount, "Noise after 22:00 on Saturday")
	require.NoError(t, err)
	require.NoError(t, db.Create(fine).Error)
	return fine
}

// FixedClock returns a clock that always reads now
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}
