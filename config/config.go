package config

import (
	"os"
	"strings"
	"time"
)

const DefaultBackendURL = "https://gresham-piercing-studio.onrender.com"

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	Port            string
	Env             string
	BackendURL      string
	UpstreamTimeout time.Duration

	SessionSecret        string
	SessionTTL           time.Duration
	SessionStore         string
	SessionSweepSchedule string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string

	AllowedOrigins []string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	StudioNotifyPhone string
}

// Load reads configuration from the environment. main loads .env first,
// so an explicit env var wins over the file, which wins over the default.
func Load() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "production"),
		BackendURL:      strings.TrimRight(getEnv("BACKEND_URL", DefaultBackendURL), "/"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		SessionSecret:        os.Getenv("SESSION_SECRET"),
		SessionTTL:           getDuration("SESSION_TTL", 2*time.Hour),
		SessionStore:         strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionSweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 10m"),
		DatabaseURL:          os.Getenv("DB_URL"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		StudioNotifyPhone: os.Getenv("STUDIO_NOTIFY_PHONE"),
	}
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SMSEnabled is true when every Twilio setting needed to text the studio is present.
func (c Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" &&
		c.TwilioPhoneNumber != "" && c.StudioNotifyPhone != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
