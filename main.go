package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"Domain_Monitor/internal/bot"
	"Domain_Monitor/internal/cache"
	"Domain_Monitor/internal/cache/whoisCache"
	"Domain_Monitor/internal/config"
	"Domain_Monitor/internal/fetcher"
	"Domain_Monitor/internal/http"
	"Domain_Monitor/internal/logger"
	"Domain_Monitor/internal/models"
	"Domain_Monitor/internal/monitor"
	"Domain_Monitor/internal/notifier"
	"Domain_Monitor/internal/ratelimit"
	"Domain_Monitor/internal/scheduler"
	"Domain_Monitor/internal/store"
	"Domain_Monitor/internal/users"
	"Domain_Monitor/internal/whois"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection for logging
	db, err := logger.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize logger
	appLogger := logger.NewDatabaseLogger(db)
	defer appLogger.Close()

	// Create internal log event for startup
	startupCtx := logger.WithLogEvent(context.Background(), logger.NewInternalLogEvent())

	appLogger.LogInfo(startupCtx, logger.OpServerStart, "Starting Domain Monitor", map[string]interface{}{
		"version": "1.0.0",
		"config": map[string]interface{}{
			"check_interval_minutes": cfg.CheckInterval.Minutes(),
			"local_source":           cfg.LocalSource,
			"cache_type":             cfg.CacheType,
		},
	})

	// Initialize cache and whois cache
	cacheService, err := initializeCache(cfg)
	if err != nil {
		appLogger.LogError(
			startupCtx,
			"cache_init",
			"",
			"Failed to initialize cache",
			err,
			models.LogSeverityHigh,
			nil,
		)
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	organizationCache := whoisCache.New(cacheService)

	// Initialize snapshot store (write-through to the whois cache)
	snapshotStore, err := store.NewPostgresStore(cfg.DatabaseURL, organizationCache, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer snapshotStore.Close()

	// Initialize whois resolver
	resolver := whois.NewResolver(
		organizationCache,
		appLogger,
		cfg.WhoisTimeout,
		cfg.WhoisRetryAttempts,
		cfg.WhoisRetryDelay,
	)

	// Initialize source fetcher; the file source is also editable for the
	// admin add/remove commands
	var sourceFetcher fetcher.Service
	var sourceEditor fetcher.SourceEditor
	if cfg.LocalSource {
		fileFetcher := fetcher.NewFileFetcher(cfg.SourcePath)
		sourceFetcher = fileFetcher
		sourceEditor = fileFetcher
	} else {
		sourceFetcher = fetcher.NewHTTPFetcher(cfg.SourceURL, cfg.FetchTimeout)
	}

	// Initialize subscriber registry
	subscriberRegistry := users.NewFileRegistry(cfg.UsersFile, appLogger)

	// Initialize Telegram client and notifier
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram client: %v", err)
	}

	telegramNotifier := notifier.NewTelegramNotifier(botAPI, subscriberRegistry, cfg.AdminChatIDs, appLogger)

	// Initialize the monitor pipeline
	domainMonitor := monitor.New(
		sourceFetcher,
		sourceEditor,
		snapshotStore,
		resolver,
		telegramNotifier,
		appLogger,
		cfg.MaxConcurrentLookups,
	)

	// Seed the snapshot on first run so the initial cycle does not report
	// the whole source list as added
	if err := domainMonitor.SeedIfEmpty(startupCtx); err != nil {
		appLogger.LogError(startupCtx, logger.OpCheckCycle, "", "Failed to seed initial snapshot", err, models.LogSeverityHigh, nil)
	}

	// Initialize bot command dispatcher and cycle scheduler
	dispatcher := bot.NewDispatcher(
		botAPI,
		domainMonitor,
		subscriberRegistry,
		appLogger,
		cfg.AdminChatIDs,
		cfg.CommandCooldown,
	)
	cycleScheduler := scheduler.New(domainMonitor, appLogger, cfg.CheckInterval)

	rateLimiter := ratelimit.NewTwoTierRateLimiter(
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.GlobalRateLimitPerSec),
		int64(cfg.PerUserRateLimitPerSec),
		int64(cfg.PerUserRateLimitPerSec),
	)

	// Initialize operational HTTP server
	handler := http.NewHandler(domainMonitor, snapshotStore, subscriberRegistry, appLogger)
	addr := ":" + cfg.Port
	server := http.NewServer(
		addr,
		handler,
		appLogger,
		rateLimiter,
		cfg.ServerReadTimeout,
		cfg.ServerWriteTimeout,
	)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go dispatcher.Run(runCtx)
	go cycleScheduler.Run(runCtx)
	go func() {
		if err := server.Start(); err != nil {
			appLogger.LogError(
				context.Background(),
				logger.OpServerStart,
				"",
				"HTTP server stopped",
				err,
				models.LogSeverityHigh,
				map[string]interface{}{"addr": addr},
			)
		}
	}()

	fmt.Printf("Domain Monitor started, checking every %s, HTTP on %s\n", cfg.CheckInterval, addr)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	cancel()
	botAPI.StopReceivingUpdates()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.LogError(
			shutdownCtx,
			logger.OpServerShutdown,
			"",
			"Server shutdown error",
			err,
			models.LogSeverityMedium,
			nil,
		)
		log.Printf("Server shutdown error: %v", err)
	} else {
		appLogger.LogInfo(shutdownCtx, logger.OpServerShutdown, "Shutdown completed", nil)
	}
}

func initializeCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.CacheType {
	case "redis":
		return cache.NewRedisCache(cfg.RedisURL)
	case "memory":
		return cache.NewMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
