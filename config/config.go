// File: /config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port    string
	GinMode string

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret string
	JWTTTL    time.Duration
	Timezone  string

	LogLevel  string
	LogFormat string

	// Optional size-rotated log file written next to stdout
	LogFile      string
	LogMaxSizeMB int

	RateLimitPerMinute int
	RateLimitBurst     int

	// WeChat mini-program login
	WeChatAppID     string
	WeChatAppSecret string
	WeChatAPIBase   string

	// WeCom robot used for feedback notifications
	WeComWebhook string

	// S3-compatible object storage
	StorageEndpoint      string
	StorageAccessKey     string
	StorageSecretKey     string
	StorageBucket        string
	StorageRegion        string
	StorageUseSSL        bool
	StoragePublicBaseURL string

	// Email Configuration
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromEmail     string
	FromName      string
	FeedbackEmail string
}

func Load() *Config {
	// A missing .env is fine, the process environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not read .env file")
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "mysql"),
		DatabaseURL:    getEnv("DATABASE_URL", "user:password@tcp(localhost:3306)/car_fuel?charset=utf8mb4&parseTime=True&loc=Local"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		Timezone:  getEnv("TIMEZONE", "Asia/Shanghai"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		LogFile:      getEnv("LOG_FILE", ""),
		LogMaxSizeMB: getEnvInt("LOG_MAX_SIZE_MB", 50),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		WeChatAppID:     getEnv("WECHAT_APP_ID", ""),
		WeChatAppSecret: getEnv("WECHAT_APP_SECRET", ""),
		WeChatAPIBase:   getEnv("WECHAT_API_BASE", "https://api.weixin.qq.com"),

		WeComWebhook: getEnv("WECHAT_ROBOT_WEBHOOK", ""),

		StorageEndpoint:      getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:        getEnv("STORAGE_BUCKET", ""),
		StorageRegion:        getEnv("STORAGE_REGION", ""),
		StorageUseSSL:        getEnvBool("STORAGE_USE_SSL", true),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnvInt("SMTP_PORT", 2525),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@fuellog.local"),
		FromName:      getEnv("FROM_NAME", "Fuel Log"),
		FeedbackEmail: getEnv("FEEDBACK_EMAIL", ""),
	}
}

// Location resolves the configured time zone. Refuel dates are local
// wall-clock values, so every year window is cut in this location.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", c.Timezone).Warn("Unknown time zone, using local time")
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
