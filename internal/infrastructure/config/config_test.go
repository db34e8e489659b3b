package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigUsesEnvironmentPrefix(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "admin123")
	t.Setenv("DB_HOST", "plain-host")
	t.Setenv("SERVER_DB_HOST", "server-host")
	t.Setenv("LOCAL_DB_HOST", "local-host")
	t.Setenv("DB_NAME", "community")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "server-host", cfg.DBHost)
	assert.Equal(t, "community", cfg.DBName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 24, cfg.JWTExpirationHours)
	assert.Equal(t, "admin123", cfg.DefaultAdminPassword)
}

func TestLoadConfigUnknownEnvFallsBackToLocal(t *testing.T) {
	t.Setenv("ENV_TYPE", "staging")
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "admin123")
	t.Setenv("LOCAL_SERVER_PORT", "9090")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "9090", cfg.ServerPort)
}

func TestLoadConfigRequiresAdminPassword(t *testing.T) {
	t.Setenv("DEFAULT_ADMIN_PASSWORD", "")

	assert.Panics(t, func() { LoadConfig() })
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{
		DBUser: "root", DBPassword: "pw", DBHost: "db", DBPort: "3306", DBName: "vizinho",
		RedisHost: "cache", RedisPort: "6380",
	}

	assert.Equal(t, "root:pw@tcp(db:3306)/vizinho?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
	assert.False(t, cfg.OmiseEnabled())

	cfg.OmisePublicKey, cfg.OmiseSecretKey = "pkey_test", "skey_test"
	assert.True(t, cfg.OmiseEnabled())
}
