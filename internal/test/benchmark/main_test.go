package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"vizinho-http-service/internal/app/routes"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/infrastructure/database"
	"vizinho-http-service/internal/test/testutil"
)

// TestConfig points the benchmark at a server. An empty BaseURL starts one in process.
type TestConfig struct {
	BaseURL     string `json:"base_url"`
	AdminUser   string `json:"admin_user"`
	AdminPass   string `json:"admin_pass"`
	Concurrency int    `json:"concurrency"`
	Requests    int    `json:"requests"`
}

var (
	config    TestConfig
	authToken string
)

func TestMain(m *testing.M) {
	if err := loadConfig(); err != nil {
		fmt.Printf("loading benchmark config failed: %v\n", err)
		os.Exit(1)
	}

	if config.BaseURL == "" {
		server, err := startServer()
		if err != nil {
			fmt.Printf("starting in-process server failed: %v\n", err)
			os.Exit(1)
		}
		config.BaseURL = server.URL + "/api"
		code := runWithToken(m)
		server.Close()
		os.Exit(code)
	}
	os.Exit(runWithToken(m))
}

func runWithToken(m *testing.M) int {
	token, err := NewAPIBenchmark(config.BaseURL, 1, 1, "").Login(config.AdminUser, config.AdminPass)
	if err != nil {
		fmt.Printf("login failed: %v\n", err)
		return 1
	}
	authToken = token
	return m.Run()
}

// loadConfig applies test_config.json over the defaults when the file exists
func loadConfig() error {
	config = TestConfig{
		AdminUser:   "admin",
		AdminPass:   testutil.AdminPassword,
		Concurrency: 10,
		Requests:    100,
	}

	data, err := os.ReadFile("test_config.json")
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing test_config.json: %w", err)
		}
	}
	return nil
}

// startServer runs the full router on an in-memory database seeded with the default admin
func startServer() (*httptest.Server, error) {
	gin.SetMode(gin.ReleaseMode)
	cfg := testutil.Config()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(pool.DB); err != nil {
		return nil, err
	}

	c := container.NewServiceContainer(pool.DB, cfg, nil)
	users := c.GetService("user").(services.InterfaceUserService)
	if err := users.EnsureAdminExists(context.Background()); err != nil {
		return nil, err
	}
	announcements := c.GetService("announcement").(services.InterfaceAnnouncementService)
	admin, err := users.GetUserByID(context.Background(), 1)
	if err != nil {
		return nil, err
	}
	if _, err := announcements.CreateAnnouncement(context.Background(), admin, "Pool maintenance", "The pool is closed on Monday"); err != nil {
		return nil, err
	}

	return httptest.NewServer(routes.SetupRouter(c, cfg)), nil
}

func checkResult(t *testing.T, name string, result *BenchmarkResult) {
	t.Helper()
	result.PrintResult()
	if result.FailureCount > 0 {
		t.Errorf("%s: %d failed requests, success rate %.2f%%", name, result.FailureCount, result.SuccessRate())
	}
}

func TestReportList(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	checkResult(t, "report list", benchmark.RunGET("/reports"))
}

func TestAnnouncementList(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	checkResult(t, "announcement list", benchmark.RunGET("/announcements"))
}

func TestAnnouncementDetail(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	checkResult(t, "announcement detail", benchmark.RunGET("/announcements/1"))
}

func TestLostItemList(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	checkResult(t, "lost item list", benchmark.RunGET("/lost-items"))
}

func TestAdminDashboard(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	checkResult(t, "admin dashboard", benchmark.RunGET("/admin/dashboard"))
}

func TestCreateReport(t *testing.T) {
	benchmark := NewAPIBenchmark(config.BaseURL, config.Concurrency, config.Requests, authToken)
	result := benchmark.RunPOST("/reports", map[string]interface{}{
		"title":       "Leaking pipe in the garage",
		"description": "Water dripping next to spot 14",
		"location":    "Garage, level -1",
	})
	checkResult(t, "create report", result)
}
