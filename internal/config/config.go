package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Signing secrets are kept separate per token
// kind so that a leaked token of one kind can never be replayed as another.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	AccessSecret  string        // secret used to sign access tokens
	RefreshSecret string        // secret used to sign refresh tokens
	ResetSecret   string        // secret used to sign password-reset tokens
	AccessTTL     time.Duration // access token lifetime
	ResetTTL      time.Duration // reset token lifetime
	BcryptCost    int           // bcrypt cost for password hashing

	SessionTracking bool // when true, refresh tokens must be live in the session registry
	ResetSingleUse  bool // when true, a reset token authorizes exactly one password change

	ResetURLBase string // base URL embedded in password-reset emails
	SMSFrom      string // sender number for outbound SMS
	BlobDir      string // directory where profile images are stored
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AccessSecret:  must("ACCESS_TOKEN_SECRET"),
		RefreshSecret: must("REFRESH_TOKEN_SECRET"),
		ResetSecret:   must("RESET_TOKEN_SECRET"),
		AccessTTL:     envDur("ACCESS_TOKEN_TTL", 24*time.Hour),
		ResetTTL:      envDur("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:    envInt("BCRYPT_COST", 12),

		SessionTracking: envBool("SESSION_TRACKING_ENABLED", true),
		ResetSingleUse:  envBool("RESET_TOKEN_SINGLE_USE", true),

		ResetURLBase: envStr("RESET_URL_BASE", "http://localhost:3000/reset-password"),
		SMSFrom:      os.Getenv("SMS_FROM"),
		BlobDir:      envStr("BLOB_DIR", "data/images"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
