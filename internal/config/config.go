package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	DynamoDB  DynamoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Tracking  TrackingConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey string
	Expiry    time.Duration
}

type OTPConfig struct {
	Digits int
	Expiry time.Duration
}

type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
	// FailOpen permits issuance when the counter store is unreachable,
	// trading strict limiting for availability.
	FailOpen bool
}

type EmailConfig struct {
	SendGridAPIKey string
	FromName       string
	FromEmail      string
	Enabled        bool
}

type TrackingConfig struct {
	Prefix      string
	MaxAttempts int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		DynamoDB: DynamoDBConfig{
			Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
			Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
			TableName: getEnv("DYNAMODB_TABLE_NAME", "SamparkTable"),
		},
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
			Expiry:    getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
		},
		OTP: OTPConfig{
			Digits: getEnvAsInt("OTP_DIGITS", 6),
			Expiry: getEnvAsDuration("OTP_EXPIRY", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: getEnvAsInt("OTP_RATE_LIMIT_MAX", 3),
			Window:      getEnvAsDuration("OTP_RATE_LIMIT_WINDOW", time.Hour),
			FailOpen:    getEnvAsBool("OTP_RATE_LIMIT_FAIL_OPEN", true),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromName:       getEnv("EMAIL_FROM_NAME", "Sampark Team"),
			FromEmail:      getEnv("EMAIL_FROM", "noreply@sampark.app"),
			Enabled:        getEnvAsBool("EMAIL_ENABLED", true),
		},
		Tracking: TrackingConfig{
			Prefix:      getEnv("TRACKING_ID_PREFIX", "SMPK"),
			MaxAttempts: getEnvAsInt("TRACKING_ID_MAX_ATTEMPTS", 10),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if len(cfg.JWT.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	if cfg.OTP.Digits != 6 {
		return nil, fmt.Errorf("OTP_DIGITS must be 6")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
