package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dafibh/finboard/finboard-backend/internal/config"
	"github.com/dafibh/finboard/finboard-backend/internal/handler"
	"github.com/dafibh/finboard/finboard-backend/internal/middleware"
	"github.com/dafibh/finboard/finboard-backend/internal/repository/grist"
	"github.com/dafibh/finboard/finboard-backend/internal/repository/storage"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// @title Finboard API
// @version 1.0
// @description Financial dashboard API backed by a Grist document.
// @BasePath /api
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Amounts are written as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client, err := grist.NewClient(grist.Config{
		APIKey:     cfg.Grist.APIKey,
		DocID:      cfg.Grist.DocID,
		BaseURL:    cfg.Grist.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Grist.Timeout},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Grist client")
	}
	if !client.CanWrite() {
		log.Warn().Msg("GRIST_API_KEY is not set, writes will be rejected")
	}

	// Initialize repositories
	budgetRepo := grist.NewBudgetRepository(client)
	categoryRepo := grist.NewCategoryRepository(client)
	transactionRepo := grist.NewTransactionRepository(client)
	summaryRepo := grist.NewMonthlySummaryRepository(client)

	// Snapshot storage is optional
	var objectStore storage.ObjectStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3Store(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		objectStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Chart snapshots enabled")
	}

	hub := websocket.NewHub()

	// Initialize services
	budgetService := service.NewBudgetService(budgetRepo, categoryRepo)
	budgetService.SetEventPublisher(hub)
	budgetService.SetWriteGuard(client)
	categoryService := service.NewCategoryService(categoryRepo, transactionRepo)
	categoryService.SetEventPublisher(hub)
	categoryService.SetWriteGuard(client)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo)
	transactionService.SetEventPublisher(hub)
	transactionService.SetWriteGuard(client)
	summaryService := service.NewMonthlySummaryService(summaryRepo)
	summaryService.SetEventPublisher(hub)
	summaryService.SetWriteGuard(client)

	dashboardService := service.NewDashboardService(transactionRepo, categoryRepo, summaryRepo)
	dashboardService.SetLocation(cfg.DashboardTimezone)
	reportService := service.NewReportService(transactionRepo, categoryRepo)
	reportService.SetLocation(cfg.DashboardTimezone)
	chartService := service.NewChartService(dashboardService, reportService)
	snapshotService := service.NewSnapshotService(chartService, objectStore)

	// Bearer auth is enabled by AUTH0_DOMAIN
	var tokenValidator middleware.TokenValidator
	if cfg.AuthEnabled() {
		jwtValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create JWT validator")
		}
		tokenValidator = jwtValidator
	} else {
		log.Warn().Msg("AUTH0_DOMAIN is not set, API is unauthenticated")
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenValidator)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	reportHandler := handler.NewReportHandler(reportService, chartService, snapshotService, cfg.DashboardMonths)
	reportHandler.SetEventPublisher(hub)
	handlers := handler.Handlers{
		Budget:         handler.NewBudgetHandler(budgetService),
		Category:       handler.NewCategoryHandler(categoryService),
		Transaction:    handler.NewTransactionHandler(transactionService),
		MonthlySummary: handler.NewMonthlySummaryHandler(summaryService),
		Dashboard:      handler.NewDashboardHandler(dashboardService, cfg.DashboardLocale, cfg.DashboardMonths),
		Report:         reportHandler,
	}
	wsHandler := handler.NewWebSocketHandler(hub, tokenValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())

	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", handler.OpenAPIHandler("http://localhost:"+cfg.Port))
	e.GET("/ws", wsHandler.HandleWS)

	handler.RegisterRoutes(e, handlers, authMiddleware, rateLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("doc_id", cfg.Grist.DocID).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
