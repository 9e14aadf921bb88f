package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "RECIPES_"

// envKey maps an environment variable to a config key. RECIPES_* variables
// map to their lower-cased suffix; DATABASE_URL and PORT are the names
// Heroku-style platforms inject. Everything else is ignored.
func envKey(name string) string {
	switch name {
	case "DATABASE_URL":
		return "database_dsn"
	case "PORT":
		return "port"
	}
	if strings.HasPrefix(name, envPrefix) {
		return strings.ToLower(strings.TrimPrefix(name, envPrefix))
	}
	return ""
}

// parseEnv overlays values from the environment, e.g.
//
//	RECIPES_SECRET_KEY=... RECIPES_ACCESS_TOKEN_VALIDITY_DURATION=24h
//	RECIPES_CORS_ALLOWED_ORIGINS=https://a.example,https://b.example
//
// PORT=5000 is shorthand for RECIPES_HTTP_ADDR=:5000.
func parseEnv(config *Config) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		panic(err)
	}

	if k.Exists("port") {
		config.HTTPAddr = ":" + k.String("port")
	}

	str := func(key string, dst *string) {
		if k.Exists(key) {
			*dst = k.String(key)
		}
	}
	str("http_addr", &config.HTTPAddr)
	str("database_dsn", &config.DatabaseDSN)
	str("secret_key", &config.SecretKey)
	str("static_dir", &config.StaticDir)
	str("log_level", &config.LogLevel)
	str("log_format", &config.LogFormat)
	str("upload_dir", &config.UploadDir)
	str("s3_access_key", &config.S3AccessKey)
	str("s3_secret_key", &config.S3SecretKey)
	str("s3_bucket", &config.S3Bucket)
	str("s3_region", &config.S3Region)
	str("s3_base_endpoint", &config.S3BaseEndpoint)

	dur := func(key string, dst *time.Duration) {
		if k.Exists(key) {
			setDuration(dst, k.String(key))
		}
	}
	dur("access_token_validity_duration", &config.AccessTokenValidityDuration)
	dur("read_timeout", &config.ReadTimeout)
	dur("write_timeout", &config.WriteTimeout)
	dur("shutdown_timeout", &config.ShutdownTimeout)

	if k.Exists("max_upload_bytes") {
		config.MaxUploadBytes = k.Int64("max_upload_bytes")
	}
	if k.Exists("login_rate_limit") {
		config.LoginRateLimit = k.Int("login_rate_limit")
	}
	if k.Exists("cors_allowed_origins") {
		config.CORSAllowedOrigins = splitList(k.String("cors_allowed_origins"))
	}
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
