package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database_dsn", envKey("DATABASE_URL"))
	assert.Equal(t, "port", envKey("PORT"))
	assert.Equal(t, "s3_bucket", envKey("RECIPES_S3_BUCKET"))
	assert.Equal(t, "", envKey("HOME"))
}

func Test_parseEnv(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("DATABASE_URL", "postgres://heroku")
	t.Setenv("RECIPES_SECRET_KEY", "env-secret")
	t.Setenv("RECIPES_ACCESS_TOKEN_VALIDITY_DURATION", "90m")
	t.Setenv("RECIPES_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("RECIPES_LOGIN_RATE_LIMIT", "4")
	t.Setenv("RECIPES_MAX_UPLOAD_BYTES", "2048")
	t.Setenv("RECIPES_S3_BUCKET", "legacy")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "postgres://heroku", cfg.DatabaseDSN)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 90*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 4, cfg.LoginRateLimit)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "legacy", cfg.S3Bucket)
}

func Test_parseEnv_HTTPAddrWinsOverPort(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("RECIPES_HTTP_ADDR", "127.0.0.1:6000")

	cfg := &Config{}
	parseEnv(cfg)
	assert.Equal(t, "127.0.0.1:6000", cfg.HTTPAddr)
}

func Test_parseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv("RECIPES_READ_TIMEOUT", "whenever")
	assert.Panics(t, func() { parseEnv(&Config{}) })
}
