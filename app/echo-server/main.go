package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crateDigger/app/echo-server/router"
	"crateDigger/business/auth"
	"crateDigger/business/catalog"
	"crateDigger/business/scoring"
	"crateDigger/business/scraper"
	"crateDigger/business/selection"
	"crateDigger/internal/middleware"
	"crateDigger/internal/repository/discogs"
	"crateDigger/internal/repository/mlservice"
	psqlRepo "crateDigger/internal/repository/postgres"
	redisRepo "crateDigger/internal/repository/redis"
	"crateDigger/internal/rest"
	"crateDigger/pkg/config"
	"crateDigger/pkg/database"
	redisdb "crateDigger/pkg/database/redis"
	"crateDigger/pkg/logger"
	"crateDigger/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

const nightlyRescoreBatch = 500

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting crateDigger", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional infrastructure: without it the API still serves, just
	// without session revocation, the stats cache, and scrape locks.
	var tokenRepo *redisRepo.TokenRepository
	var statsCacheRepo *redisRepo.StatsCacheRepository
	var scrapeLockRepo *redisRepo.ScrapeLockRepository

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", "error", err)
	} else {
		tokenRepo = redisRepo.NewTokenRepository(redisClient)
		statsCacheRepo = redisRepo.NewStatsCacheRepository(redisClient)
		scrapeLockRepo = redisRepo.NewScrapeLockRepository(redisClient)
		logger.Info("Redis connected successfully")
	}

	// Engine tunables: defaults, optionally overridden from file
	selectionCfg, err := selection.LoadConfig(cfg.Selection.TunablesPath)
	if err != nil {
		logger.Fatal("Failed to load selection tunables", "error", err)
	}

	// Init repo
	listingRepo := psqlRepo.NewListingRepository(db)
	recordRepo := psqlRepo.NewRecordRepository(db)
	rotdRepo := psqlRepo.NewRecordOfTheDayRepository(db)
	discogsRepo := discogs.NewDiscogsRepository(discogs.DiscogsConfig{
		BaseURL: cfg.Inventory.BaseURL,
		Token:   cfg.Inventory.Token,
	})
	predictorRepo := mlservice.NewMLServiceRepository(mlservice.MLServiceConfig{
		BaseURL: cfg.Predictor.BaseURL,
	})

	// Init service
	selectorService := selection.NewSelectorService(listingRepo, rotdRepo, selectionCfg)
	rotdService := selection.NewRecordOfTheDayService(selectorService, rotdRepo)
	scoringService := scoring.NewScoringService(listingRepo, predictorRepo)
	authService := auth.NewAuthService(cfg.Admin.Username, cfg.Admin.PasswordHash, nilIfNoRedis(tokenRepo))

	var statsCache catalog.StatsCache
	if statsCacheRepo != nil {
		statsCache = statsCacheRepo
	}
	catalogService := catalog.NewCatalogService(listingRepo, statsCache)

	var scrapeLocker scraper.ScrapeLocker
	if scrapeLockRepo != nil {
		scrapeLocker = scrapeLockRepo
	}
	scraperService := scraper.NewScraperService(discogsRepo, recordRepo, scrapeLocker)

	// Init handler
	authHandler := rest.NewAuthHandler(authService)
	rotdHandler := rest.NewRecordOfTheDayHandler(rotdService)
	catalogHandler := rest.NewCatalogHandler(catalogService, rotdService)
	scoringHandler := rest.NewScoringHandler(scoringService)
	scraperHandler := rest.NewScraperHandler(scraperService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	var tokenValidator middleware.TokenValidator
	if tokenRepo != nil {
		tokenValidator = tokenRepo
	}
	authRequired := middleware.AuthMiddleware(tokenValidator)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, authHandler, authRequired)
	router.SetupRecordOfTheDayRoutes(api, rotdHandler, authRequired, adminOnly)
	router.SetupCatalogRoutes(api, catalogHandler, authRequired)
	router.SetupScoringRoutes(api, scoringHandler, authRequired)
	router.SetupScraperRoutes(api, scraperHandler, authRequired, adminOnly)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Scheduled jobs: pre-select the record of the day just after midnight,
	// rescore the unevaluated backlog at night.
	scheduler := cron.New()
	if cfg.Cron.DailySelection != "" {
		_, err := scheduler.AddFunc(cfg.Cron.DailySelection, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if _, _, err := rotdService.Today(ctx); err != nil {
				logger.Error("Scheduled daily selection failed", err)
			}
		})
		if err != nil {
			logger.Fatal("Invalid daily selection schedule", "error", err)
		}
	}
	if cfg.Cron.NightlyRescore != "" {
		_, err := scheduler.AddFunc(cfg.Cron.NightlyRescore, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			if _, err := scoringService.ScoreUnevaluated(ctx, "", nightlyRescoreBatch); err != nil {
				logger.Error("Scheduled rescore failed", err)
			}
		})
		if err != nil {
			logger.Fatal("Invalid nightly rescore schedule", "error", err)
		}
	}
	scheduler.Start()

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis shutdown error", "error", err)
		}
	}

	logger.Info("Server stopped")
}

// nilIfNoRedis keeps a typed-nil *TokenRepository out of the auth service's
// interface field.
func nilIfNoRedis(repo *redisRepo.TokenRepository) auth.TokenRepository {
	if repo == nil {
		return nil
	}
	return repo
}
