package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type AppConfig struct {
	// Server
	HTTPAddr        string
	Env             string
	ShutdownTimeout time.Duration

	// PostgreSQL
	DatabaseURL string
	DBMaxConns  int32

	// Redis (optional, empty address disables cache and rate limiting)
	RedisAddr string
	RedisPass string
	RedisDB   int

	// WhatsApp gateway
	WhatsApp WhatsAppConfig

	// Reporting
	ReportLocation *time.Location
	StatsCacheTTL  time.Duration

	// Outbound send limits per address
	SendRateLimit  int64
	SendRateWindow time.Duration
}

type WhatsAppConfig struct {
	APIURL        string
	APIKey        string
	Timeout       time.Duration
	AddressSuffix string
}

// IsDevelopment reports whether verbose development logging is wanted.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load loads environment variables into AppConfig.
func Load() (AppConfig, error) {
	var errs []string
	fail := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8001"),
		Env:       strings.ToLower(getEnv("APP_ENV", "production")),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),
		WhatsApp: WhatsAppConfig{
			APIURL:        getEnv("WHATSAPP_API_URL", ""),
			APIKey:        getEnv("WHATSAPP_API_KEY", ""),
			AddressSuffix: getEnv("WHATSAPP_ADDRESS_SUFFIX", "@s.whatsapp.net"),
		},
	}

	var err error
	cfg.DatabaseURL = databaseURL()

	cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	fail(err)
	cfg.WhatsApp.Timeout, err = getEnvDuration("WHATSAPP_TIMEOUT", 30*time.Second)
	fail(err)
	cfg.StatsCacheTTL, err = getEnvDuration("STATS_CACHE_TTL", 30*time.Second)
	fail(err)
	cfg.SendRateWindow, err = getEnvDuration("SEND_RATE_WINDOW", time.Minute)
	fail(err)

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	fail(err)
	cfg.DBMaxConns = int32(maxConns)

	cfg.RedisDB, err = getEnvInt("REDIS_DB", 0)
	fail(err)

	limit, err := getEnvInt("SEND_RATE_LIMIT", 20)
	fail(err)
	cfg.SendRateLimit = int64(limit)

	cfg.ReportLocation, err = reportLocation(getEnv("REPORT_TIMEZONE", "UTC"))
	fail(err)

	if cfg.WhatsApp.Timeout <= 0 {
		fail(fmt.Errorf("WHATSAPP_TIMEOUT must be positive"))
	}

	if len(errs) > 0 {
		return AppConfig{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// reportLocation resolves an IANA zone name. The name is also handed to
// PostgreSQL's AT TIME ZONE, so "Local", which only the Go runtime knows,
// is refused.
func reportLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "Local") {
		return nil, fmt.Errorf("REPORT_TIMEZONE: %q is not an IANA time zone name", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil || loc == time.Local || loc.String() == "Local" {
		return nil, fmt.Errorf("REPORT_TIMEZONE: unknown time zone %q", name)
	}
	return loc, nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles a DSN from the
// discrete DB_* variables.
func databaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "")),
		Host:   getEnv("DB_HOST", "localhost") + ":" + getEnv("DB_PORT", "5432"),
		Path:   "/" + getEnv("DB_NAME", "crm"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}
