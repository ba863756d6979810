// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the store path, subscriber policy, reply
// copy, collaborator selection and observability.
package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-sms-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// PolicyConfig holds the per-subscriber processing policy.
type PolicyConfig struct {
	RatePerHour         int           // RATE_PER_HOUR (>= 1)
	RatePerDay          int           // RATE_PER_DAY (>= 1)
	DedupTTL            time.Duration // DEDUP_TTL, how long delivery ids are remembered
	CollaboratorTimeout time.Duration // COLLABORATOR_TIMEOUT, per answer/send call
}

// CopyConfig holds the operator strings used in canned replies.
type CopyConfig struct {
	Brand        string // BRAND_NAME
	PricingCopy  string // PRICING_COPY
	SupportPhone string // SUPPORT_PHONE
	SupportEmail string // SUPPORT_EMAIL
}

// OutboundConfig selects and configures the SMS sender.
type OutboundConfig struct {
	UseMock    bool    // USE_MOCK_SEND
	OutboxPath string  // OUTBOX_PATH, mock mode only
	APIBase    string  // SMS_API_BASE
	APIKey     string  // SMS_API_KEY
	SenderID   string  // SENDER_ID
	SendRPS    float64 // SMS_SEND_RPS (0 disables pacing)
	SendBurst  int     // SMS_SEND_BURST (>= 1)
}

// AnswerConfig selects and configures the answer generator.
type AnswerConfig struct {
	Fake    bool   // FAKE_AI_MODE; forced on when APIKey is empty
	APIKey  string // OPENAI_API_KEY
	Model   string // OPENAI_MODEL
	BaseURL string // OPENAI_BASE_URL (optional)
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for operator API routes

	// Store
	DBPath string // SQLite path

	Policy   PolicyConfig
	Copy     CopyConfig
	Outbound OutboundConfig
	Answer   AnswerConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

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

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 45*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Store
		DBPath: getenv("DB_PATH", "store.db"),

		Policy: PolicyConfig{
			RatePerHour:         getint("RATE_PER_HOUR", 20),
			RatePerDay:          getint("RATE_PER_DAY", 200),
			DedupTTL:            getdur("DEDUP_TTL", 24*time.Hour),
			CollaboratorTimeout: getdur("COLLABORATOR_TIMEOUT", 15*time.Second),
		},

		Copy: CopyConfig{
			Brand:        getenv("BRAND_NAME", "BongaAI"),
			PricingCopy:  getenv("PRICING_COPY", "R1/SMS received (std rates apply)"),
			SupportPhone: getenv("SUPPORT_PHONE", "0X-XXX-XXXX"),
			SupportEmail: getenv("SUPPORT_EMAIL", "bongaai.support@gmail.com"),
		},

		Outbound: OutboundConfig{
			UseMock:    getbool("USE_MOCK_SEND", true),
			OutboxPath: getenv("OUTBOX_PATH", "outbox.log"),
			APIBase:    getenv("SMS_API_BASE", "https://sms-gateway.example.com"),
			APIKey:     getenv("SMS_API_KEY", "dev-mock-key"),
			SenderID:   getenv("SENDER_ID", "27820000000"),
			SendRPS:    getfloat("SMS_SEND_RPS", 10),
			SendBurst:  getint("SMS_SEND_BURST", 5),
		},

		Answer: AnswerConfig{
			Fake:    getbool("FAKE_AI_MODE", true),
			APIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			Model:   getenv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getenv("OPENAI_BASE_URL", ""),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-sms-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	// No key means no live answers.
	if cfg.Answer.APIKey == "" {
		cfg.Answer.Fake = true
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Policy.RatePerHour < 1 {
		return cfg, errors.New("RATE_PER_HOUR must be >= 1")
	}
	if cfg.Policy.RatePerDay < 1 {
		return cfg, errors.New("RATE_PER_DAY must be >= 1")
	}
	if cfg.Policy.DedupTTL <= 0 {
		return cfg, errors.New("DEDUP_TTL must be > 0")
	}
	if cfg.Policy.CollaboratorTimeout <= 0 {
		return cfg, errors.New("COLLABORATOR_TIMEOUT must be > 0")
	}
	if strings.TrimSpace(cfg.Copy.Brand) == "" {
		return cfg, errors.New("BRAND_NAME must not be empty")
	}
	if cfg.Outbound.UseMock && strings.TrimSpace(cfg.Outbound.OutboxPath) == "" {
		return cfg, errors.New("OUTBOX_PATH must not be empty in mock send mode")
	}
	if !cfg.Outbound.UseMock {
		u, err := url.Parse(cfg.Outbound.APIBase)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return cfg, errors.New("SMS_API_BASE must be an absolute http(s) URL")
		}
	}
	if strings.TrimSpace(cfg.Outbound.SenderID) == "" {
		return cfg, errors.New("SENDER_ID must not be empty")
	}
	if cfg.Outbound.SendRPS < 0 {
		return cfg, errors.New("SMS_SEND_RPS must be >= 0")
	}
	if cfg.Outbound.SendBurst < 1 {
		return cfg, errors.New("SMS_SEND_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
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

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
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

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
