// config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the API. Values come from the
// process environment, optionally seeded from a .env file.
type Config struct {
	Port           string
	AllowedOrigins []string

	StorageDriver  string // "postgres" or "memory"
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int

	AdminUsername            string
	LegacyPlaintextPasswords bool
	VerificationCodeTTL      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTP SMTPConfig

	UploadDir      string
	UploadMaxBytes int
	R2             R2Config

	Monitor MonitorConfig
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Configured reports whether enough SMTP settings are present to send mail.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// Configured reports whether uploads should go to R2 instead of local disk.
func (c R2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Bucket != ""
}

// MonitorConfig tunes the suspicious delete activity scan.
type MonitorConfig struct {
	Interval  time.Duration
	Window    time.Duration
	Threshold int
}

// Load reads the .env file if present and builds a Config from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),

		AdminUsername:            getEnv("ADMIN_USERNAME", "admin"),
		LegacyPlaintextPasswords: getEnvAsBool("LEGACY_PLAINTEXT_PASSWORDS", false),
		VerificationCodeTTL:      getEnvAsDuration("VERIFICATION_CODE_TTL", 10*time.Minute),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: getEnvAsInt("SMTP_PORT", 587),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getEnvAsInt("UPLOAD_MAX_BYTES", 20*1024*1024),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
		},

		Monitor: MonitorConfig{
			Interval:  getEnvAsDuration("MONITOR_INTERVAL", 60*time.Second),
			Window:    getEnvAsDuration("MONITOR_WINDOW", 60*time.Second),
			Threshold: getEnvAsInt("MONITOR_THRESHOLD", 3),
		},
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  [Config] %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvAsBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️  [Config] %s=%q is not a boolean, using %t", key, v, fallback)
		return fallback
	}
	return b
}

// getEnvAsDuration accepts Go duration strings ("90s", "2m") or a bare
// number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("⚠️  [Config] %s=%q is not a duration, using %s", key, v, fallback)
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
