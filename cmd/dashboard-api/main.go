package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/config"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/database"
	httpapi "github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/http"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/logger"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/repository"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/service"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/shopify"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/store"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "dashboard-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Redis only backs the dashboard cache; a missing Redis degrades to
	// direct queries.
	var kv store.KV
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
	} else {
		kv = store.NewRedisKV(redisClient)
	}

	customersRepo := repository.NewPostgresCustomersRepo(db, log)
	ordersRepo := repository.NewPostgresOrdersRepo(db, log)
	productsRepo := repository.NewPostgresProductsRepo(db, log)
	dashboardRepo := repository.NewPostgresDashboardRepo(db)

	shopifyClient := shopify.NewClient(cfg.Shopify.APIVersion, log)

	ingestService := service.NewIngestService(customersRepo, ordersRepo, productsRepo, shopifyClient, log)
	dashboardService := service.NewDashboardService(dashboardRepo, kv, log)

	router := httpapi.NewRouter(cfg.HTTP.CORSOrigin, log)
	router.RegisterHealthRoute()
	router.RegisterIngestRoutes(httpapi.NewIngestHandler(ingestService, cfg.Shopify.AccessToken, log))
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(dashboardService, log))

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}

	go func() {
		log.Info("dashboard-api listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
