package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers supported for submission uploads.
const (
	StorageDriverCloudinary = "cloudinary"
	StorageDriverB2         = "b2"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	Timezone               string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	EventSubjectBase       string
	JWTSecret              string
	StorageDriver          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	B2AccountID            string
	B2ApplicationKey       string
	B2Bucket               string
	SubmissionMaxSizeMB    int
	UploadRateLimit        int
	UploadRateWindow       time.Duration
	DashboardCacheTTL      time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location resolves the timezone used for due-date day boundaries.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CLASSROOM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classroom API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("events.subject", "classroom")
	v.SetDefault("storage.driver", StorageDriverCloudinary)
	v.SetDefault("cloudinary.folder", "classroom/submissions")
	v.SetDefault("b2.bucket", "submissions")
	v.SetDefault("submission.max_size_mb", 20)
	v.SetDefault("upload.rate_limit", 10)
	v.SetDefault("upload.rate_window", "1m")
	v.SetDefault("dashboard.cache_ttl", "2m")

	ttl, err := parseDuration(v.GetString("dashboard.cache_ttl"), "2m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	window, err := parseDuration(v.GetString("upload.rate_window"), "1m")
	if err != nil {
		return Config{}, fmt.Errorf("invalid upload rate window: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		Timezone:               v.GetString("app.timezone"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		EventSubjectBase:       v.GetString("events.subject"),
		JWTSecret:              v.GetString("jwt.secret"),
		StorageDriver:          strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		B2AccountID:            v.GetString("b2.account_id"),
		B2ApplicationKey:       v.GetString("b2.application_key"),
		B2Bucket:               v.GetString("b2.bucket"),
		SubmissionMaxSizeMB:    v.GetInt("submission.max_size_mb"),
		UploadRateLimit:        v.GetInt("upload.rate_limit"),
		UploadRateWindow:       window,
		DashboardCacheTTL:      ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.StorageDriver {
	case StorageDriverCloudinary, StorageDriverB2:
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}

	if cfg.SubmissionMaxSizeMB <= 0 {
		cfg.SubmissionMaxSizeMB = 20
	}

	return cfg, nil
}

func parseDuration(raw, fallback string) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	return time.ParseDuration(raw)
}
