package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-catalog-search/api"
	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/analytics"
	"github.com/gcbaptista/go-catalog-search/internal/catalog"
	"github.com/gcbaptista/go-catalog-search/internal/ingest"
	"github.com/gcbaptista/go-catalog-search/internal/jobs"
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML config file")
		port       = flag.String("port", "", "Port to run the server on (overrides config)")
		dataDir    = flag.String("data-dir", "", "Directory to store the catalog snapshot and lists (overrides config)")
		feed       = flag.String("feed", "", "CSV feed to load at startup (overrides config)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Catalog Search - vehicle catalog search with typo tolerance\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                  # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --feed vehicles.csv          # Load a feed at startup\n", os.Args[0])
		fmt.Printf("  %s --config catalog.yaml        # Use a config file\n", os.Args[0])
		fmt.Printf("\nEnvironment variables prefixed with CATALOG_ override the config file.\n")
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Catalog Search v1.0.0\n")
		return
	}

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *feed != "" {
		cfg.FeedPath = *feed
	}

	logger := newLogger(cfg)

	logger.WithField("data_dir", cfg.DataDir).Info("Using data directory")
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create data directory")
	}

	svc, err := catalog.NewService(cfg.Catalog, catalog.Options{
		DataDir: cfg.DataDir,
		Logger:  logger.WithField("component", "catalog"),
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize catalog")
	}

	if cfg.FeedPath != "" {
		vehicles, err := ingest.LoadFile(cfg.FeedPath)
		if err != nil {
			logger.WithError(err).WithField("feed", cfg.FeedPath).Fatal("Failed to load feed")
		}
		if err := svc.Reload(vehicles); err != nil {
			logger.WithError(err).Fatal("Failed to load catalog")
		}
	}

	// Initialize Gin router
	if logger.Logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.LoggerMiddleware(logger.WithField("component", "http")),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
		api.RateLimitMiddleware(
			api.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
			cfg.RateLimit.WaitTimeout,
		),
	)

	jobManager := jobs.NewManager(cfg.JobWorkers, logger.WithField("component", "jobs"))
	jobManager.Start()

	analyticsService := analytics.NewService(svc, analytics.Options{
		DataFile: filepath.Join(cfg.DataDir, "analytics.gob"),
		Logger:   logger.WithField("component", "analytics"),
	})

	// Stop background work and flush analytics on shutdown
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		sig := <-signals
		logger.WithField("signal", sig.String()).Info("Shutting down")

		jobManager.Stop()
		if err := analyticsService.Flush(); err != nil {
			logger.WithError(err).Warn("Failed to flush analytics")
		}
		os.Exit(0)
	}()

	// Setup API routes
	api.SetupRoutes(router, svc, api.Dependencies{
		Analytics: analyticsService,
		Jobs:      jobManager,
		Logger:    logger.WithField("component", "api"),
	})

	// Start the server
	logger.WithFields(logrus.Fields{
		"port":     cfg.Port,
		"vehicles": len(svc.Vehicles()),
	}).Info("Starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}

func newLogger(cfg config.ServerConfig) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logrus.NewEntry(logger).WithField("service", "catalog_server")
}
