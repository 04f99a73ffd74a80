package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/api/routes"
	"github.com/lumeworks/lume-backend/internal/analytics"
	"github.com/lumeworks/lume-backend/internal/auth"
	"github.com/lumeworks/lume-backend/internal/cart"
	"github.com/lumeworks/lume-backend/internal/inventory"
	"github.com/lumeworks/lume-backend/internal/products"
	"github.com/lumeworks/lume-backend/internal/purchases"
	"github.com/lumeworks/lume-backend/internal/recommendations"
	"github.com/lumeworks/lume-backend/internal/users"
	"github.com/lumeworks/lume-backend/pkg/config"
	"github.com/lumeworks/lume-backend/pkg/db"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/metrics"
	"github.com/lumeworks/lume-backend/pkg/migrate"
	"github.com/lumeworks/lume-backend/pkg/recs"
	"github.com/lumeworks/lume-backend/pkg/redis"
)

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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	purchasesRepo := purchases.NewRepository(dbClient.DB())
	ledger := inventory.NewLedger(dbClient.DB())

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo, dbClient, func(tx *gorm.DB) products.InventoryWriter {
		return ledger.WithTx(tx)
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, ledger, productsRepo, logg, cartMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	purchasesService, err := purchases.NewService(purchasesRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchases service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(purchasesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	scoringClient := recs.NewClient(
		recs.WithBaseURL(cfg.Recs.ScoringURL),
		recs.WithTimeout(cfg.Recs.Timeout),
	)
	recsService, err := recommendations.NewService(scoringClient, redisClient, purchasesRepo, productsRepo, logg, recommendations.Config{
		MaxResults: cfg.Recs.MaxResults,
		CacheTTL:   cfg.Recs.CacheTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Registry:        registry,
			Auth:            authService,
			Users:           usersService,
			Products:        productsService,
			Cart:            cartService,
			Purchases:       purchasesService,
			Analytics:       analyticsService,
			Recommendations: recsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
