package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/kursboard/kursboard/internal/adapters/database/pgsql"
	"github.com/kursboard/kursboard/internal/adapters/realtime"
	"github.com/kursboard/kursboard/internal/adapters/social"
	"github.com/kursboard/kursboard/internal/core/domain"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/core/services"
	"github.com/kursboard/kursboard/internal/handlers"
	"github.com/kursboard/kursboard/internal/middleware"
	"github.com/kursboard/kursboard/internal/platform/config"
	"github.com/kursboard/kursboard/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Kursboard API
// @version 1.0
// @description Currency exchange rate publishing backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	hub := realtime.NewHub(logger, nil)

	publishers := buildPublishers(cfg, logger)

	serviceContainer := services.NewServiceContainer(cfg, repos, hub, publishers, logger)

	if err := seedData(ctx, cfg, repos, serviceContainer, logger); err != nil {
		logger.Error("Failed to seed startup data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	startAuditPurger(ctx, serviceContainer.Audit, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	} else {
		logger.Warn("Invalid rate limit format, global limiter disabled", slog.String("value", cfg.RateLimit))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, hub)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return corsCfg
}

// buildPublishers wires one SocialPublisher per configured platform. A
// platform with missing settings is simply not wired.
func buildPublishers(cfg *config.Config, logger *slog.Logger) []portssvc.SocialPublisher {
	var publishers []portssvc.SocialPublisher

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		publishers = append(publishers, social.NewTelegramPublisher(cfg.TelegramBotToken, cfg.TelegramChatID))
		logger.Info("Telegram publisher configured")
	}
	if cfg.PublishWebhookURL != "" {
		publishers = append(publishers, social.NewWebhookPublisher("webhook", cfg.PublishWebhookURL))
		logger.Info("Webhook publisher configured")
	}
	if len(publishers) == 0 {
		logger.Warn("No social publishers configured")
	}
	return publishers
}

// seedData creates the bootstrap admin account and a placeholder record for
// every allow-listed currency that does not exist yet. Placeholder records
// carry zero rates and stay off the public page until their first accepted
// update.
func seedData(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, svcs *portssvc.ServiceContainer, logger *slog.Logger) error {
	if cfg.AdminPassword != "" {
		if err := svcs.User.EnsureAdminUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, skipping bootstrap admin account")
	}

	now := time.Now().UTC()
	for _, code := range cfg.AllowedCurrencyCodes {
		_, err := repos.Rate.FindByCode(ctx, code)
		if err == nil {
			continue
		}
		rate := domain.CurrencyRate{
			Code:        code,
			DisplayName: code,
			IsActive:    true,
			IsVisible:   true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     "system",
				LastUpdatedAt: now,
				LastUpdatedBy: "system",
			},
		}
		if err := repos.Rate.SaveNew(ctx, rate); err != nil {
			return err
		}
		logger.Info("Seeded currency record", slog.String("code", code))
	}
	return nil
}

// startAuditPurger removes expired audit entries once a day.
func startAuditPurger(ctx context.Context, audit portssvc.AuditSvc, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := audit.PurgeExpired(ctx)
			if err != nil {
				logger.Error("Audit purge failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				logger.Info("Purged expired audit entries", slog.Int64("count", removed))
			}
		}
	}()
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Migrations use a standard sql.DB over the pgx stdlib driver so the
	// postgres migrate driver can wrap it.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
