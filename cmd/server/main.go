// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/hydroinv/backend-go/internal/api"
	"github.com/andresuchdata/hydroinv/backend-go/internal/cache"
	"github.com/andresuchdata/hydroinv/backend-go/internal/classify"
	"github.com/andresuchdata/hydroinv/backend-go/internal/config"
	"github.com/andresuchdata/hydroinv/backend-go/internal/demand"
	"github.com/andresuchdata/hydroinv/backend-go/internal/health"
	"github.com/andresuchdata/hydroinv/backend-go/internal/repository"
	"github.com/andresuchdata/hydroinv/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/hydroinv/backend-go/internal/service"
	"github.com/andresuchdata/hydroinv/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize analytics models
	classifyCfg := classify.DefaultConfig()
	applyModelOverrides(&classifyCfg, cfg.Models)
	classifier := classify.New(classifyCfg)

	demandCfg := demand.DefaultConfig()
	if cfg.Models.LeadTimeDays > 0 {
		demandCfg.LeadTimeDays = cfg.Models.LeadTimeDays
	}
	if cfg.Models.HoldingCostRate > 0 {
		demandCfg.HoldingCostRate = cfg.Models.HoldingCostRate
	}
	demandModel := demand.New(demandCfg)

	scorer, err := health.New(health.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to build health scorer: %v", err)
	}

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	repo := repository.NewAnalyticsRepository(db.DB)
	analyticsService := service.NewAnalyticsService(classifier, demandModel, scorer, repo, dashboardCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{AnalyticsService: analyticsService}, db, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func applyModelOverrides(cfg *classify.Config, models config.ModelsConfig) {
	if models.ClassifyWorkers > 0 {
		cfg.Workers = models.ClassifyWorkers
	}
	if models.FastMinVelocity > 0 {
		cfg.FastMinVelocity = models.FastMinVelocity
	}
	if models.SlowMaxVelocity > 0 {
		cfg.SlowMaxVelocity = models.SlowMaxVelocity
	}
	if models.NewItemMaxAgeDays > 0 {
		cfg.NewItemMaxAgeDays = models.NewItemMaxAgeDays
	}
	if models.DeadStockMinDaysIdle > 0 {
		cfg.DeadStockMinDaysNoSale = models.DeadStockMinDaysIdle
	}
	if models.DBSCANEps > 0 {
		cfg.DBSCANEps = models.DBSCANEps
	}
	if models.DBSCANMinSamples > 0 {
		cfg.DBSCANMinSamples = models.DBSCANMinSamples
	}
	if models.KMeansClusters > 0 {
		cfg.KMeansClusters = models.KMeansClusters
	}
	if models.HoldingCostRate > 0 {
		cfg.HoldingCostRate = models.HoldingCostRate
	}
}
