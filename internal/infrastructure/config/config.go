package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // "mysql" or "sqlite"
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBPath          string // sqlite file, ":memory:" allowed
	DBMigrationMode string // "auto" (default) or "drop"

	// Server
	ServerPort         string
	CORSAllowedOrigins []string

	// Redis
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT Authentication
	JWTSecretKey       string
	JWTExpirationHours int

	// Payments
	OmisePublicKey  string
	OmiseSecretKey  string
	PaymentCurrency string

	// Scheduled jobs
	DashboardRefreshSpec string

	// Logging
	LogDir string

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	switch strings.ToUpper(envType) {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	return &Config{
		EnvType: strings.ToUpper(envType),

		// Database config - environment-specific variables win over the plain ones
		DBDriver:        getPrefixed(prefix, "DB_DRIVER", "mysql"),
		DBHost:          getPrefixed(prefix, "DB_HOST", "localhost"),
		DBUser:          getPrefixed(prefix, "DB_USER", "root"),
		DBPassword:      getPrefixed(prefix, "DB_PASSWORD", ""),
		DBName:          getPrefixed(prefix, "DB_NAME", "vizinho"),
		DBPort:          getPrefixed(prefix, "DB_PORT", "3306"),
		DBPath:          getPrefixed(prefix, "DB_PATH", "vizinho.db"),
		DBMigrationMode: getPrefixed(prefix, "DB_MIGRATION_MODE", "auto"),

		// Server config
		ServerPort:         getPrefixed(prefix, "SERVER_PORT", "8080"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		// Redis config
		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:     getPrefixed(prefix, "REDIS_HOST", "localhost"),
		RedisPort:     getPrefixed(prefix, "REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// JWT Config
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", "vizinho-secret-key-change-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		// Payment config
		OmisePublicKey:  getEnv("OMISE_PUBLIC_KEY", ""),
		OmiseSecretKey:  getEnv("OMISE_SECRET_KEY", ""),
		PaymentCurrency: getEnv("PAYMENT_CURRENCY", "thb"),

		DashboardRefreshSpec: getEnv("DASHBOARD_REFRESH_SPEC", "@every 5m"),

		LogDir: getEnv("LOG_DIR", "logs"),

		// Admin Config
		DefaultAdminPassword: getEnvRequired("DEFAULT_ADMIN_PASSWORD"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the MySQL connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// OmiseEnabled reports whether card payments can be charged through Omise
func (c *Config) OmiseEnabled() bool {
	return c.OmisePublicKey != "" && c.OmiseSecretKey != ""
}

// getPrefixed looks up prefix+key, then key, then falls back to defaultValue
func getPrefixed(prefix, key, defaultValue string) string {
	return getEnv(prefix+key, getEnv(key, defaultValue))
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvRequired panics when key is unset or empty
func getEnvRequired(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	panic(fmt.Sprintf("Required environment variable %s is not set", key))
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
