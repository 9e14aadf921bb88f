package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/foodrecipe/internal/flagx"
	"github.com/goccy/go-json"
)

// JsonConfig is the on-disk shape of the config file. Durations are strings
// such as "48h" or "30s". Absent or zero fields keep the current value.
type JsonConfig struct {
	HTTPAddr                    string   `json:"http_addr"`
	DatabaseDSN                 string   `json:"database_dsn"`
	SecretKey                   string   `json:"secret_key"`
	AccessTokenValidityDuration string   `json:"access_token_validity_duration"`
	ReadTimeout                 string   `json:"read_timeout"`
	WriteTimeout                string   `json:"write_timeout"`
	ShutdownTimeout             string   `json:"shutdown_timeout"`
	MaxUploadBytes              int64    `json:"max_upload_bytes"`
	StaticDir                   string   `json:"static_dir"`
	CORSAllowedOrigins          []string `json:"cors_allowed_origins"`
	LoginRateLimit              int      `json:"login_rate_limit"`
	LogLevel                    string   `json:"log_level"`
	LogFormat                   string   `json:"log_format"`
	UploadDir                   string   `json:"upload_dir"`
	S3AccessKey                 string   `json:"s3_access_key"`
	S3SecretKey                 string   `json:"s3_secret_key"`
	S3Bucket                    string   `json:"s3_bucket"`
	S3Region                    string   `json:"s3_region"`
	S3BaseEndpoint              string   `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config in args.
// Without the flag nothing is loaded. An unreadable file, invalid JSON or a
// malformed duration panics, like a bad flag does.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.ReadTimeout, c.ReadTimeout)
	setDuration(&config.WriteTimeout, c.WriteTimeout)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	setString(&config.StaticDir, c.StaticDir)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.LoginRateLimit > 0 {
		config.LoginRateLimit = c.LoginRateLimit
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
