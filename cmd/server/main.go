package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartsuschef/backend-go/internal/api"
	"github.com/smartsuschef/backend-go/internal/cache"
	"github.com/smartsuschef/backend-go/internal/config"
	"github.com/smartsuschef/backend-go/internal/repository/postgres"
	"github.com/smartsuschef/backend-go/internal/service"
	"github.com/smartsuschef/backend-go/internal/storage"
	"github.com/smartsuschef/backend-go/pkg/clients/holiday"
	"github.com/smartsuschef/backend-go/pkg/clients/mlservice"
	"github.com/smartsuschef/backend-go/pkg/clients/weather"
	"github.com/smartsuschef/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Repositories
	storeRepo := postgres.NewStoreRepository(db)
	ingredientRepo := postgres.NewIngredientRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	wastageRepo := postgres.NewWastageRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	signalRepo := postgres.NewSignalRepository(db)

	// External clients
	mlClient := mlservice.NewClient(
		cfg.ML.BaseURL,
		time.Duration(cfg.ML.StatusTimeoutSeconds)*time.Second,
		time.Duration(cfg.ML.PredictTimeoutSecs)*time.Second,
	)
	holidayClient := holiday.NewClient(cfg.External.HolidayAPIURL)
	weatherClient := weather.NewClient(cfg.External.WeatherAPIURL)

	signalCache, err := cache.NewSignalCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Signal cache unavailable, continuing without caching")
		signalCache = cache.NewNoopSignalCache()
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Export archive unavailable, exports will not be archived")
		} else {
			archive = minioClient
		}
	}

	// Services
	forecastService := service.NewForecastService(storeRepo, recipeRepo, ingredientRepo, forecastRepo, mlClient)
	salesService := service.NewSalesService(salesRepo, recipeRepo, ingredientRepo, signalRepo)
	wastageService := service.NewWastageService(wastageRepo, ingredientRepo)
	signalService := service.NewSignalService(signalRepo, storeRepo, holidayClient, weatherClient, signalCache)

	services := &api.Services{
		Forecast:   forecastService,
		Export:     service.NewExportService(forecastService, archive),
		Recipe:     service.NewRecipeService(recipeRepo, ingredientRepo),
		Ingredient: service.NewIngredientService(ingredientRepo),
		Sales:      salesService,
		Wastage:    wastageService,
		Store:      service.NewStoreService(storeRepo),
		Dashboard:  service.NewDashboardService(salesService, wastageService, signalService),
		Signals:    signalService,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
