package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// AllowedCurrencyCodes is the closed set of codes the dashboard may
	// publish. It is configuration, not user data.
	AllowedCurrencyCodes []string

	// RateHistoryCap bounds each record's update journal (oldest evicted first).
	RateHistoryCap int

	// AuditRetention is how long activity-log entries are kept.
	AuditRetention time.Duration

	// PersistTimeout bounds the store write of one batch update.
	PersistTimeout time.Duration

	// RateLimit is a ulule/limiter formatted rate (e.g. "120-M").
	RateLimit string

	CORSAllowOrigins []string

	// Bootstrap admin account, created on startup if missing.
	AdminUsername string
	AdminPassword string

	// Social publishers. A platform with empty settings is not wired.
	TelegramBotToken  string
	TelegramChatID    string
	PublishWebhookURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "kursboard")
	viper.SetDefault("ALLOWED_CURRENCY_CODES", "USD,EUR,SGD,MYR,AUD,GBP,JPY,SAR")
	viper.SetDefault("RATE_HISTORY_CAP", 10)
	viper.SetDefault("AUDIT_RETENTION_DAYS", 90)
	viper.SetDefault("PERSIST_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_CHAT_ID", "")
	viper.SetDefault("PUBLISH_WEBHOOK_URL", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AllowedCurrencyCodes = splitCSV(viper.GetString("ALLOWED_CURRENCY_CODES"))
	if len(cfg.AllowedCurrencyCodes) == 0 {
		log.Println("Warning: ALLOWED_CURRENCY_CODES is empty; no currency can be created.")
	}

	cfg.RateHistoryCap = viper.GetInt("RATE_HISTORY_CAP")
	if cfg.RateHistoryCap <= 0 {
		cfg.RateHistoryCap = 10
		log.Printf("Warning: RATE_HISTORY_CAP must be positive. Defaulting to %d.\n", cfg.RateHistoryCap)
	}

	retentionDays := viper.GetInt("AUDIT_RETENTION_DAYS")
	if retentionDays <= 0 {
		retentionDays = 90
		log.Printf("Warning: AUDIT_RETENTION_DAYS must be positive. Defaulting to %d.\n", retentionDays)
	}
	cfg.AuditRetention = time.Duration(retentionDays) * 24 * time.Hour

	persistTimeoutStr := viper.GetString("PERSIST_TIMEOUT")
	persistTimeout, err := time.ParseDuration(persistTimeoutStr)
	if err != nil {
		persistTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for PERSIST_TIMEOUT ('%s'). Defaulting to %s.\n", persistTimeoutStr, persistTimeout)
	}
	cfg.PersistTimeout = persistTimeout

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowOrigins = splitCSV(viper.GetString("CORS_ALLOW_ORIGINS"))

	cfg.AdminUsername = viper.GetString("ADMIN_USERNAME")
	cfg.AdminPassword = viper.GetString("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		log.Println("Warning: ADMIN_PASSWORD not set. The bootstrap admin account will not be created.")
	}

	cfg.TelegramBotToken = viper.GetString("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = viper.GetString("TELEGRAM_CHAT_ID")
	cfg.PublishWebhookURL = viper.GetString("PUBLISH_WEBHOOK_URL")

	return cfg, nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToUpper(trimmed))
		}
	}
	return out
}
