// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string

	JWTSecret     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int

	CookieName   string
	CookieSecure bool
	FrontendURL  string
	CORSOrigins  []string

	SMTPHost       string
	SMTPPort       string
	SMTPUser       string
	SMTPPassword   string
	SMTPFrom       string
	SMTPUseTLS     bool
	SMTPSkipVerify bool
	SupportEmail   string

	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3Endpoint        string
	S3PublicBaseURL   string
	S3KeyPrefix       string
}

// Load reads configuration from the process environment. A .env file in the
// working directory is loaded first when present. When CONFIG_FILE names a
// TOML file, its top-level keys (same names as the env vars) act as defaults
// that real env vars still override.
func Load() (*Config, error) {
	_ = godotenv.Load()

	src := source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &src.file); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	databaseURL := src.get("DATABASE_URL", "")
	if databaseURL == "" {
		host := src.get("PSQL_HOST", "localhost")
		port := src.get("PSQL_PORT", "5432")
		user := src.get("PSQL_USER", "postgres")
		password := src.get("PSQL_PASSWORD", "postgres")
		dbName := src.get("PSQL_DB_NAME", "stock_mana")

		u := &url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(user, password),
			Host:   host + ":" + port,
			Path:   dbName,
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		databaseURL = u.String()
	}

	sessionTTL, err := src.duration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	resetTTL, err := src.duration("RESET_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cost, err := strconv.Atoi(src.get("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	smtpUser := src.get("EMAIL_USER", "")

	return &Config{
		Port:        src.get("PORT", "5000"),
		Environment: src.get("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,

		JWTSecret:     src.get("JWT_SECRET", ""),
		SessionTTL:    sessionTTL,
		ResetTokenTTL: resetTTL,
		BcryptCost:    cost,

		CookieName:   src.get("COOKIE_NAME", "token"),
		CookieSecure: src.bool("COOKIE_SECURE", true),
		FrontendURL:  strings.TrimRight(src.get("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSOrigins:  splitList(src.get("CORS_ORIGINS", "http://localhost:3000")),

		SMTPHost:       src.get("EMAIL_HOST", ""),
		SMTPPort:       src.get("EMAIL_PORT", "587"),
		SMTPUser:       smtpUser,
		SMTPPassword:   src.get("EMAIL_PASS", ""),
		SMTPFrom:       src.get("EMAIL_FROM", smtpUser),
		SMTPUseTLS:     src.bool("EMAIL_USE_TLS", false),
		SMTPSkipVerify: src.bool("EMAIL_SKIP_VERIFY", false),
		SupportEmail:   src.get("SUPPORT_EMAIL", smtpUser),

		S3Region:          src.get("AWS_REGION", "us-east-1"),
		S3AccessKeyID:     src.get("AWS_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: src.get("AWS_SECRET_ACCESS_KEY", ""),
		S3Bucket:          src.get("S3_BUCKET_NAME", ""),
		S3Endpoint:        src.get("S3_ENDPOINT", ""),
		S3PublicBaseURL:   src.get("S3_PUBLIC_BASE_URL", ""),
		S3KeyPrefix:       src.get("S3_KEY_PREFIX", "stock-mana/products"),
	}, nil
}

// Validate rejects settings the server must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.Environment != "development" {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.SessionTTL <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

type source struct {
	file map[string]string
}

func (s source) get(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := s.file[key]; exists {
		return value
	}
	return defaultValue
}

func (s source) bool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(s.get(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func (s source) duration(key string, defaultValue time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(s.get(key, defaultValue.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
