package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxledger/internal/adapters/cache"
	"fxledger/internal/adapters/httpclient"
	"fxledger/internal/adapters/postgres"
	"fxledger/internal/api"
	"fxledger/internal/config"
	"fxledger/internal/ledger"
	ledgerhandler "fxledger/internal/ledger/handler"
	"fxledger/internal/platform/db"
	httpserver "fxledger/internal/platform/http"
	"fxledger/internal/rate"
	ratehandler "fxledger/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// Rate cache and external quote client
	rateCache, err := cache.NewRateCache(appCfg.RateCache.MaxItems, time.Duration(appCfg.RateCache.TTLSeconds)*time.Second)
	if err != nil {
		logrus.WithError(err).Error("Failed to create rate cache")
		return err
	}
	defer rateCache.Close()

	quoteClient := httpclient.NewPTAXClient(baseHTTPClient, appCfg.QuoteService.BaseURL)

	// Rate provider with an initial currency whitelist
	rateProvider := rate.NewProvider(quoteClient, rateCache)
	if err = rateProvider.RefreshCurrencies(startupCtx); err != nil {
		logrus.WithError(err).Error("Failed to load currency whitelist")
		return err
	}
	logrus.Info("✅ Currency whitelist loaded")

	// Ledger service on top of the postgres unit of work
	store := postgres.NewStore(pool)
	ledgerService := ledger.NewService(store, rateProvider)

	// Whitelist refresh scheduler
	scheduler := rate.NewScheduler(rateProvider, time.Duration(appCfg.Scheduler.RefreshIntervalHours)*time.Hour)
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	ledgerHandler := ledgerhandler.NewLedgerHandler(ledgerService)
	rateHandler := ratehandler.NewRateHandler(rateProvider)
	router := api.NewRouter(ledgerHandler, rateHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}
