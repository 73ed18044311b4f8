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

	"finos-server/internal/api/config"
	delivery "finos-server/internal/api/delivery/http"
	"finos-server/internal/api/delivery/ws"
	_ "finos-server/internal/api/docs"
	"finos-server/internal/api/repository"
	"finos-server/internal/api/service"
	"finos-server/pkg/logger"
	"finos-server/pkg/postgres"
	"finos-server/pkg/redis"
	"finos-server/pkg/telegram"
	"finos-server/pkg/utils"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the api service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	assetRepo := repository.NewAssetRepository(db.DB)
	watchlistRepo := repository.NewWatchlistRepository(db.DB)
	tradeRepo := repository.NewTradeRepository(db.DB)
	profileRepo := repository.NewProfileRepository(db.DB)
	onboardingRepo := repository.NewOnboardingRepository(db.DB)
	quoteRepo := repository.NewQuoteRepository(cfg, appLogger, redisClient.Client)
	tickerDirectory := repository.NewTickerDirectory(cfg, appLogger)
	newsRepo := repository.NewNewsRepository(cfg, appLogger)

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.Chat.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Chat.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini repository", logger.ErrorField(err))
		}
	default:
		aiRepo = repository.NewHuggingFaceRepository(cfg, appLogger)
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
	}

	// Initialize services
	marketSvc := service.NewMarketService(cfg, appLogger, quoteRepo, tickerDirectory, redisClient.Client)
	portfolioSvc := service.NewPortfolioService(assetRepo, marketSvc, appLogger)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, marketSvc, appLogger)
	journalSvc := service.NewJournalService(tradeRepo, appLogger)
	analysisSvc := service.NewAnalysisService(cfg, tradeRepo, appLogger)
	newsSvc := service.NewNewsService(cfg, newsRepo, appLogger)
	chatSvc := service.NewChatService(cfg, aiRepo, marketSvc, appLogger)
	profileSvc := service.NewProfileService(profileRepo, onboardingRepo, appLogger)

	// Start background refresh
	hub := ws.NewHub(appLogger)
	refreshSvc := service.NewRefreshService(cfg, assetRepo, watchlistRepo, marketSvc, hub, notifier, appLogger)
	utils.GoSafe(func() {
		if err := refreshSvc.Start(ctx); err != nil {
			appLogger.Error("Refresh scheduler failed", logger.ErrorField(err))
		}
	})

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1", delivery.UserIDMiddleware())

	portfolioHandler := delivery.NewPortfolioHandler(portfolioSvc, appLogger)
	portfolioHandler.RegisterRoutes(apiV1.Group("/portfolio"))

	watchlistHandler := delivery.NewWatchlistHandler(watchlistSvc, appLogger)
	watchlistHandler.RegisterRoutes(apiV1.Group("/watchlist"))

	journalHandler := delivery.NewJournalHandler(journalSvc, appLogger)
	journalHandler.RegisterRoutes(apiV1.Group("/journal"))

	analysisHandler := delivery.NewAnalysisHandler(analysisSvc, appLogger)
	analysisHandler.RegisterRoutes(apiV1.Group("/analysis"))

	marketHandler := delivery.NewMarketHandler(marketSvc, hub, appLogger)
	marketHandler.RegisterRoutes(apiV1.Group("/market"))
	marketHandler.RegisterStreamRoutes(e.Group("/api/v1/market"))

	newsHandler := delivery.NewNewsHandler(newsSvc, appLogger)
	newsHandler.RegisterRoutes(apiV1.Group("/news"))

	chatHandler := delivery.NewChatHandler(chatSvc, appLogger)
	chatHandler.RegisterRoutes(apiV1.Group("/chat"))

	profileHandler := delivery.NewProfileHandler(profileSvc, appLogger)
	profileHandler.RegisterRoutes(apiV1.Group("/profile"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title FinOS API
// @version 1.0
// @description Backend for the FinOS personal finance dashboard.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
