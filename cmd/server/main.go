// Package main is the entry point for the payments API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mentorpay/internal/config"
	"mentorpay/internal/handlers"
	"mentorpay/internal/logging"
	"mentorpay/internal/middleware"
	"mentorpay/internal/provider"
	"mentorpay/internal/repositories"
	"mentorpay/internal/repositories/cache"
	"mentorpay/internal/routes"
	"mentorpay/internal/services/account"
	"mentorpay/internal/services/catalog"
	"mentorpay/internal/services/checkout"
	"mentorpay/internal/services/notification"
	"mentorpay/internal/services/onboarding"
	"mentorpay/internal/services/reconciler"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repositories.OpenDB(cfg.DB)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := repositories.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to database", "host", cfg.DB.Host, "name", cfg.DB.Name)

	// The catalog cache is optional: without Redis listings go straight to the provider.
	cacheService := cache.NewCacheService(cache.NewRedisClient(cfg.Redis), cfg.Payments.CatalogCacheTTL)
	var redisPing handlers.Pinger
	var catalogCache catalog.Cache
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		log.Warn("redis unavailable, catalog cache disabled", "error", err)
	} else {
		redisPing = cacheService.HealthCheck
		catalogCache = cacheService
	}

	stripe := provider.NewStripe(cfg.Stripe.SecretKey)
	profiles := repositories.NewProfileRepository(db)
	events := repositories.NewPaymentEventRepository(db)

	accounts := account.NewService(stripe, profiles, log)
	onboardingService := onboarding.NewService(stripe, onboarding.Config{
		AppURL:        cfg.Payments.AppURL,
		DashboardPath: cfg.Payments.DashboardPath,
		StatusPath:    cfg.Payments.StatusPath,
	})
	catalogService := catalog.NewService(stripe, catalogCache, cfg.Payments.CatalogCacheTTL, log)
	checkoutService := checkout.NewService(stripe, checkout.Config{
		AppURL:            cfg.Payments.AppURL,
		SuccessPath:       cfg.Payments.CheckoutSuccessPath,
		CancelPath:        cfg.Payments.CheckoutCancelPath,
		DefaultFeePercent: cfg.Payments.PlatformFeePercent,
	}, log)
	reconcilerService := reconciler.NewService(reconciler.Deps{
		Secret:   cfg.Stripe.WebhookSecret,
		Events:   stripe,
		Accounts: accounts,
		Log:      events,
		Notifier: notification.NewService(profiles, log),
		Logger:   log,
	})

	app := fiber.New(fiber.Config{
		AppName:      "mentorpay",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,OPTIONS",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/products", limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
	}))
	app.Use("/api/checkout", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
	}))
	app.Use("/api/webhooks", limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Accounts: handlers.NewAccountHandler(accounts, onboardingService, log),
		Products: handlers.NewProductHandler(catalogService, accounts, log),
		Checkout: handlers.NewCheckoutHandler(checkoutService, log),
		Webhooks: handlers.NewWebhookHandler(reconcilerService, log),
		Admin:    handlers.NewAdminHandler(events, log),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return repositories.PingDB(ctx, db) },
			"redis":    redisPing,
		}),
	}, middleware.NewAuthMiddleware(cfg.JWTSecret, log))

	statsCtx, stopStats := context.WithCancel(context.Background())
	go logPoolStats(statsCtx, log, db, cacheService)

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopStats()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := cacheService.Close(); err != nil {
		log.Warn("failed to close redis connection", "error", err)
	}
	if err := repositories.CloseDB(db); err != nil {
		log.Warn("failed to close database connection", "error", err)
	}
}

// logPoolStats reports connection pool usage once a minute.
func logPoolStats(ctx context.Context, log *slog.Logger, db *gorm.DB, cacheService *cache.CacheService) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("pool stats unavailable", "error", err)
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			redisStats := cacheService.GetStats()
			log.Debug("pool stats",
				"db_open", stats.OpenConnections,
				"db_idle", stats.Idle,
				"db_in_use", stats.InUse,
				"db_wait_count", stats.WaitCount,
				"redis_hits", redisStats.Hits,
				"redis_misses", redisStats.Misses,
				"redis_total_conns", redisStats.TotalConns)
		}
	}
}
