package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/metalbaza/metalbaza-backend/api/routes"
	adsvc "github.com/metalbaza/metalbaza-backend/internal/ads"
	authsvc "github.com/metalbaza/metalbaza-backend/internal/auth"
	cartsvc "github.com/metalbaza/metalbaza-backend/internal/cart"
	catalogsvc "github.com/metalbaza/metalbaza-backend/internal/catalog"
	checkoutsvc "github.com/metalbaza/metalbaza-backend/internal/checkout"
	"github.com/metalbaza/metalbaza-backend/internal/notify"
	ordersvc "github.com/metalbaza/metalbaza-backend/internal/orders"
	settingsvc "github.com/metalbaza/metalbaza-backend/internal/settings"
	usersvc "github.com/metalbaza/metalbaza-backend/internal/users"
	workersvc "github.com/metalbaza/metalbaza-backend/internal/workers"
	"github.com/metalbaza/metalbaza-backend/pkg/config"
	"github.com/metalbaza/metalbaza-backend/pkg/db"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/metrics"
	"github.com/metalbaza/metalbaza-backend/pkg/migrate"
	"github.com/metalbaza/metalbaza-backend/pkg/redis"
	"github.com/metalbaza/metalbaza-backend/pkg/telegram"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}
	if cfg.DB.IsSQLite() && cfg.FeatureFlags.AutoMigrate {
		if err := autoMigrateSQLite(dbClient); err != nil {
			logg.Error(context.Background(), "failed to auto-migrate sqlite schema", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var notifier *notify.Notifier
	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewBot(cfg.Telegram, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create telegram bot", err)
			os.Exit(1)
		}
		notifier = notify.New(bot, cfg.Telegram, logg)
	} else {
		logg.Warn(context.Background(), "telegram bot token missing, admin notifications disabled")
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	usersRepo := usersvc.NewRepository(dbClient.DB())
	catalogRepo := catalogsvc.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	settingsRepo := settingsvc.NewRepository(dbClient.DB())
	workersRepo := workersvc.NewRepository(dbClient.DB())
	adsRepo := adsvc.NewRepository(dbClient.DB())

	usersService, err := usersvc.NewService(usersRepo, logg)
	requireService(logg, "users", err)
	authService, err := authsvc.NewService(usersRepo, cfg.JWT, cfg.Telegram, logg)
	requireService(logg, "auth", err)
	catalogService, err := catalogsvc.NewService(catalogRepo, logg)
	requireService(logg, "catalog", err)
	cartService, err := cartsvc.NewService(cartRepo, catalogRepo, logg)
	requireService(logg, "cart", err)
	ordersService, err := ordersvc.NewService(ordersRepo, logg)
	requireService(logg, "orders", err)
	settingsService, err := settingsvc.NewService(settingsRepo, logg)
	requireService(logg, "settings", err)
	adsService, err := adsvc.NewService(adsRepo, logg)
	requireService(logg, "ads", err)
	workersService, err := workersvc.NewService(workersRepo, usersRepo, notifier, logg)
	requireService(logg, "workers", err)
	checkoutService, err := checkoutsvc.NewService(checkoutsvc.Options{
		CartRepo:     cartRepo,
		OrdersRepo:   ordersRepo,
		SettingsRepo: settingsRepo,
		UsersRepo:    usersRepo,
		Tx:           dbClient,
		Locks:        redisClient,
		LockTTL:      cfg.Checkout.LockTTL,
		Metrics:      checkoutMetrics,
		Notifier:     notifier,
		Logger:       logg,
	})
	requireService(logg, "checkout", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Auth:     authService,
			Users:    usersService,
			Catalog:  catalogService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Workers:  workersService,
			Ads:      adsService,
			Settings: settingsService,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during server shutdown", err)
			os.Exit(1)
		}
	}
}

func autoMigrateSQLite(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ad{},
		&models.WorkerApplication{},
		&models.CompanySetting{},
	)
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
