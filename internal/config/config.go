package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	JWTSecret     string
	TokenDuration time.Duration
	CodeTTL       time.Duration
	DebugOTP      bool

	// Code delivery: "mock", "sns" or "telegram"
	SMSMode          string
	AWSRegion        string
	SNSEndpoint      string
	TelegramBotToken string
	TelegramChatID   string

	// Raw event archive
	RawBucket  string
	RawPrefix  string
	S3Endpoint string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./starbound.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: 30 * 24 * time.Hour,
		CodeTTL:       10 * time.Minute,
		DebugOTP:      getEnv("DEBUG_OTP", "0") == "1",

		SMSMode:          getEnv("SMS_MODE", "mock"),
		AWSRegion:        getEnv("AWS_REGION", "ru-central1"),
		SNSEndpoint:      getEnv("SNS_ENDPOINT", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		RawBucket:  getEnv("RAW_BUCKET", ""),
		RawPrefix:  getEnv("RAW_PREFIX", "raw"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
