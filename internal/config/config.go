package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once in main and passed down; no other package reads the
// environment directly.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	TokenSecret    string
	HMACCodeSecret string
	TokenExpiry    time.Duration
	CodeExpiry     time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users      string
	Categories string
	Projects   string
	Tasks      string
	Tickets    string
	Features   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:      getEnv("DYNAMO_TABLE_USERS", "users"),
			Categories: getEnv("DYNAMO_TABLE_CATEGORIES", "categories"),
			Projects:   getEnv("DYNAMO_TABLE_PROJECTS", "projects"),
			Tasks:      getEnv("DYNAMO_TABLE_TASKS", "tasks"),
			Tickets:    getEnv("DYNAMO_TABLE_TICKETS", "tickets"),
			Features:   getEnv("DYNAMO_TABLE_FEATURES", "features"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "tasktrack-attachments"),

		TokenSecret:    getEnv("TOKEN_SECRET", ""),
		HMACCodeSecret: getEnv("HMAC_CODE_SECRET", ""),
		TokenExpiry:    time.Duration(getEnvInt("TOKEN_EXPIRY_HOURS", 8)) * time.Hour,
		CodeExpiry:     time.Duration(getEnvInt("CODE_EXPIRY_MINUTES", 10)) * time.Minute,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the process runs with production hardening
// (secure cookies, redacted error messages).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
