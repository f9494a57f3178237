package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/autolab/registry/internal/delivery/http"
	"github.com/autolab/registry/internal/domain"
	"github.com/autolab/registry/internal/infrastructure/countries"
	"github.com/autolab/registry/internal/pkg/config"
	"github.com/autolab/registry/internal/pkg/database"
	"github.com/autolab/registry/internal/pkg/logger"
	"github.com/autolab/registry/internal/pkg/redis"
	"github.com/autolab/registry/internal/repository/postgres"
	"github.com/autolab/registry/internal/usecase/vehicle"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting vehicle registry API server", map[string]interface{}{
		"version": "1.0.0",
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// =========================================================================
	// Создание repositories
	// =========================================================================

	vehicleRepo := postgres.NewVehicleRepository(db)

	log.Info("Repositories initialized")

	// =========================================================================
	// Создание клиента справочника стран
	// =========================================================================

	countryClient := countries.NewHTTPClient(
		cfg.CountryAPI.BaseURL,
		cfg.CountryAPI.APIKey,
		cfg.CountryAPI.Timeout,
	)

	// Redis кэширует список стран. Без Redis приложение работает,
	// но каждый запрос уходит во внешний API.
	var countryService *countries.Service
	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis is not available, country list will not be cached", map[string]interface{}{
			"error": err.Error(),
		})
		countryService = countries.NewService(countryClient)
	} else {
		defer func() { _ = cache.Close() }()
		countryService = countries.NewService(countries.NewCachedClient(countryClient, cache))
	}

	// Проверяем доступность справочника стран
	if err := countryClient.Health(ctx); err != nil {
		log.Warn("Country service is not available", map[string]interface{}{
			"error": err.Error(),
			"url":   cfg.CountryAPI.BaseURL,
		})
		log.Warn("Vehicle creation will fail until the country service is reachable")
	} else {
		log.Info("Country service is healthy", map[string]interface{}{
			"url": cfg.CountryAPI.BaseURL,
		})
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	rules := domain.NewRules(cfg.Vehicle.VINPolicy(), nil)
	vehicleService := vehicle.NewService(vehicleRepo, countryService, rules, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и роутера
	// =========================================================================

	vehicleHandler := deliveryHTTP.NewVehicleHandler(vehicleService, log)
	countryHandler := deliveryHTTP.NewCountryHandler(countryService, log)

	router := deliveryHTTP.NewRouter(vehicleHandler, countryHandler, cfg, log)
	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Блокируемся до получения сигнала или ошибки сервера
	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
