// Package config provides the bot's configuration loaded from environment
// variables with defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the bot process.
type Config struct {
	// Telegram
	Token       string        // TELEGRAM_TOKEN, required
	PollTimeout time.Duration // POLL_TIMEOUT

	// Upstream lookup service
	RemoteAPIBase   string        // REMOTE_API_BASE
	RemoteAPIKey    string        // REMOTE_API_KEY
	UpstreamTimeout time.Duration // UPSTREAM_TIMEOUT

	// Admin raw path
	AdminToken string // ADMIN_TOKEN
	AdminID    int64  // ADMIN_ID, 0 means unset

	// Pipeline behavior
	Cooldown       time.Duration // COOLDOWN, per-chat lookup window
	RequireConsent bool          // REQUIRE_CONSENT
	RedactOutput   bool          // REDACT_OUTPUT
	EnableRawAdmin bool          // ENABLE_RAW_ADMIN

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Ops HTTP surface; empty disables it
	OpsAddr string // OPS_ADDR (e.g. ":9090")

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		Token:       getenv("TELEGRAM_TOKEN", ""),
		PollTimeout: getdur("POLL_TIMEOUT", 10*time.Second),

		RemoteAPIBase:   getenv("REMOTE_API_BASE", "https://osintt.onrender.com/index.php"),
		RemoteAPIKey:    getenv("REMOTE_API_KEY", "TheDarkAgain"),
		UpstreamTimeout: getdur("UPSTREAM_TIMEOUT", 10*time.Second),

		AdminToken: getenv("ADMIN_TOKEN", ""),

		Cooldown:       getdur("COOLDOWN", 3*time.Second),
		RequireConsent: getbool("REQUIRE_CONSENT", true),
		RedactOutput:   getbool("REDACT_OUTPUT", true),
		EnableRawAdmin: getbool("ENABLE_RAW_ADMIN", true),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		OpsAddr: getenv("OPS_ADDR", ""),

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "leakcheckbot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// Malformed ADMIN_ID is a startup error, not a silent default.
	if v, ok := os.LookupEnv("ADMIN_ID"); ok && strings.TrimSpace(v) != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("ADMIN_ID must be an integer: %w", err)
		}
		cfg.AdminID = id
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	if strings.TrimSpace(cfg.Token) == "" {
		return cfg, errors.New("TELEGRAM_TOKEN must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.RemoteAPIBase) == "" {
		return cfg, errors.New("REMOTE_API_BASE must not be empty")
	}
	if cfg.Cooldown <= 0 {
		return cfg, errors.New("COOLDOWN must be a positive duration")
	}
	if cfg.UpstreamTimeout <= 0 || cfg.PollTimeout <= 0 {
		return cfg, errors.New("UPSTREAM_TIMEOUT and POLL_TIMEOUT must be positive durations")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
