package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultBackendURL = "https://parkspotter-backened.onrender.com"
	// DevJWTSecret signs sessions when APP_ENV is development and JWT_SECRET is unset.
	DevJWTSecret = "dev-secret"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside development")

type Config struct {
	Env         string
	Port        string
	MetricsAddr string
	LogLevel    string
	CORSOrigins []string

	BackendURL        string
	BackendAuthScheme string
	BackendTimeout    time.Duration
	// BackendServiceToken is used by scheduled jobs, which run outside any staff session.
	BackendServiceToken string

	JWTSecret    string
	SessionTTL   time.Duration
	SessionStore string
	RedisURL     string
	DatabaseURL  string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromNumber  string
	AlertEmail        string

	ExpiryCron  string
	RefreshCron string

	MapboxToken string
	MapCenter   [2]float64
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	var cfg Config
	cfg.LoadEnv()
	return cfg
}

func GetOrDefault(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

func durationOrDefault(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetOrDefault(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func floatOrDefault(key string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(GetOrDefault(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func (c *Config) LoadEnv() {
	c.Env = strings.ToLower(strings.TrimSpace(GetOrDefault("APP_ENV", "development")))
	c.Port = GetOrDefault("PORT", "8080")
	c.MetricsAddr = GetOrDefault("METRICS_ADDR", ":9000")
	c.LogLevel = GetOrDefault("LOG_LEVEL", "info")
	c.CORSOrigins = splitList(GetOrDefault("CORS_ORIGINS", "*"))

	c.BackendURL = strings.TrimRight(GetOrDefault("BACKEND_URL", DefaultBackendURL), "/")
	c.BackendAuthScheme = GetOrDefault("BACKEND_AUTH_SCHEME", "Token")
	c.BackendTimeout = durationOrDefault("BACKEND_TIMEOUT", 15*time.Second)
	c.BackendServiceToken = GetOrDefault("BACKEND_SERVICE_TOKEN", "")

	c.JWTSecret = GetOrDefault("JWT_SECRET", "")
	if c.JWTSecret == "" && c.IsDevelopment() {
		c.JWTSecret = DevJWTSecret
	}
	c.SessionTTL = durationOrDefault("SESSION_TTL", 12*time.Hour)
	c.SessionStore = GetOrDefault("SESSION_STORE", "memory")
	c.RedisURL = GetOrDefault("REDIS_URL", "redis://localhost:6379/0")
	c.DatabaseURL = GetOrDefault("DATABASE_URL", "")

	c.SendGridAPIKey = GetOrDefault("SENDGRID_API_KEY", "")
	c.SendGridFromEmail = GetOrDefault("SENDGRID_FROM_EMAIL", "")
	c.SendGridFromName = GetOrDefault("SENDGRID_FROM_NAME", "ParkSpotter")
	c.TwilioAccountSID = GetOrDefault("TWILIO_ACCOUNT_SID", "")
	c.TwilioAuthToken = GetOrDefault("TWILIO_AUTH_TOKEN", "")
	c.TwilioFromNumber = GetOrDefault("TWILIO_FROM_NUMBER", "")
	c.AlertEmail = GetOrDefault("ALERT_EMAIL", "")

	c.ExpiryCron = GetOrDefault("EXPIRY_CRON", "0 8 * * *")
	c.RefreshCron = GetOrDefault("REFRESH_CRON", "@every 1m")

	c.MapboxToken = GetOrDefault("MAPBOX_TOKEN", "")
	c.MapCenter = [2]float64{
		floatOrDefault("MAP_CENTER_LNG", 90.4125),
		floatOrDefault("MAP_CENTER_LAT", 23.8103),
	}
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Validate reports settings the server must not start with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
