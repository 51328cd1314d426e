package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret           string
	JWTIssuer           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	RotateRefreshTokens bool

	// OTPPeriod is the validity window of an emailed code. The reference
	// deployments disagreed between 30s and 300s; 300s is the canonical
	// value here since a code read from an inbox needs a human-scale window.
	OTPPeriod time.Duration
	OTPIssuer string

	FaceCascadePath    string
	FaceMatchThreshold float64
	FaceTimeout        time.Duration
	FaceWorkers        int

	MediaDir string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CORSOrigins []string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:           fallback(os.Getenv("JWT_ISSUER"), "passvault-backend"),
		AccessTokenTTL:      durationHours("ACCESS_TOKEN_TTL_HOURS", 24),
		RefreshTokenTTL:     durationHours("REFRESH_TOKEN_TTL_HOURS", 24*7),
		RotateRefreshTokens: boolean("ROTATE_REFRESH_TOKENS", false),
		OTPPeriod:           durationSeconds("OTP_PERIOD_SECONDS", 300),
		OTPIssuer:           fallback(os.Getenv("OTP_ISSUER"), "PassVault"),
		FaceCascadePath:     fallback(os.Getenv("FACE_CASCADE_PATH"), "assets/facefinder"),
		FaceMatchThreshold:  float("FACE_MATCH_THRESHOLD", 0.60),
		FaceTimeout:         durationSeconds("FACE_TIMEOUT_SECONDS", 5),
		FaceWorkers:         integer("FACE_WORKERS", 4),
		MediaDir:            fallback(os.Getenv("MEDIA_DIR"), "media"),
		SMTPHost:            fallback(os.Getenv("SMTP_HOST"), "localhost"),
		SMTPPort:            integer("SMTP_PORT", 587),
		SMTPUsername:        strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:            fallback(os.Getenv("SMTP_FROM"), "no-reply@passvault.local"),
		CORSOrigins:         parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.FaceMatchThreshold <= 0 || cfg.FaceMatchThreshold >= 2 {
		return Config{}, fmt.Errorf("FACE_MATCH_THRESHOLD out of range: %v", cfg.FaceMatchThreshold)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func integer(key string, def int) int {
	if v, err := strconv.Atoi(fallback(os.Getenv(key), "")); err == nil && v > 0 {
		return v
	}
	return def
}

func float(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(fallback(os.Getenv(key), ""), 64); err == nil && v > 0 {
		return v
	}
	return def
}

func boolean(key string, def bool) bool {
	if v, err := strconv.ParseBool(fallback(os.Getenv(key), "")); err == nil {
		return v
	}
	return def
}

func durationHours(key string, def int) time.Duration {
	return time.Duration(integer(key, def)) * time.Hour
}

func durationSeconds(key string, def int) time.Duration {
	return time.Duration(integer(key, def)) * time.Second
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
