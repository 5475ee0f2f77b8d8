package main

// @title           Sieve Core API
// @version         1.0
// @description     Dataset discovery API. Sieve Core expands search terms into query variations, sweeps the remote dataset catalog at a polite pace and serves scored, deduplicated metadata.

// @contact.name   Sieve Labs OSS
// @contact.url    https://github.com/sievelabs/sieve-core/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/sievelabs/sieve-core/docs"
	"github.com/sievelabs/sieve-core/internal/adapters/driven/cache"
	"github.com/sievelabs/sieve-core/internal/adapters/driven/kaggle"
	redisqueue "github.com/sievelabs/sieve-core/internal/adapters/driven/queue/redis"
	redisadapter "github.com/sievelabs/sieve-core/internal/adapters/driven/redis"
	"github.com/sievelabs/sieve-core/internal/adapters/driving/http"
	"github.com/sievelabs/sieve-core/internal/config"
	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/core/services"
	"github.com/sievelabs/sieve-core/internal/expansion"
	"github.com/sievelabs/sieve-core/internal/export"
	"github.com/sievelabs/sieve-core/internal/metrics"
	"github.com/sievelabs/sieve-core/internal/runtime"
	"github.com/sievelabs/sieve-core/internal/worker"
)

// version is set via -ldflags at build time.
var version = "dev"

// cliCommands contains the one-shot CLI subcommands; anything else is a
// server run mode.
var cliCommands = map[string]bool{
	"search": true, "columns": true, "collect": true, "help": true,
}

// isCLIMode determines if we should run a one-shot command vs a server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

func main() {
	cfg, err := config.Load(os.Getenv("SIEVE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if isCLIMode() {
		runCLI(cfg)
		return
	}

	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	metrics.Register()

	logger.Info("sieve-core starting", "version", version, "mode", mode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, stopping")
		cancel()
	}()

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		logger.Info("redis connected")
	}

	// ===== Query cache (Redis if available, otherwise in-process LRU) =====
	var queryCache driven.QueryCache
	cacheBackend := "memory"
	if redisClient != nil {
		queryCache = cache.NewRedisCache(redisClient, cache.DefaultTTL)
		cacheBackend = "redis"
	} else {
		lruCache, err := cache.NewLRUCache(cfg.Search.CacheSize)
		if err != nil {
			logger.Error("failed to create query cache", "error", err)
			os.Exit(1)
		}
		queryCache = lruCache
	}

	// ===== Core search stack =====
	searchService := buildSearchService(cfg, queryCache, logger)
	exporter := export.NewCSVExporter()

	// ===== Collection queue and lock (Redis only) =====
	runtimeConfig := domain.NewRuntimeConfig(cacheBackend)
	backends := runtime.NewBackends(runtimeConfig)
	defer backends.Close()

	var collectionService driving.CollectionService
	var collectionQueue driven.CollectionQueue
	var distributedLock driven.DistributedLock
	if redisClient != nil {
		queue, err := redisqueue.NewQueue(redisClient)
		if err != nil {
			logger.Error("failed to create collection queue", "error", err)
			os.Exit(1)
		}
		if err := backends.ValidateAndSetQueue(ctx, queue); err != nil {
			logger.Error("collection queue unavailable", "error", err)
			os.Exit(1)
		}
		distributedLock = redisadapter.NewLock(redisClient, "")
		backends.SetLock(distributedLock)

		collectionQueue = queue
		collectionService = services.NewCollectionService(queue, logger)
	}

	logger.Info("runtime config",
		"cache_backend", runtimeConfig.CacheBackend,
		"queue_available", runtimeConfig.QueueAvailable(),
	)

	switch mode {
	case "api":
		// API-only mode: HTTP server, no worker
		runAPI(cfg, searchService, collectionService, exporter, backends, logger)

	case "worker":
		// Worker-only mode: drains the collection queue, no HTTP server
		if collectionQueue == nil {
			logger.Error("worker mode requires redis; set redis.url or SIEVE_REDIS_URL")
			os.Exit(1)
		}
		runWorkerMode(ctx, cfg, collectionQueue, distributedLock, searchService, exporter, logger)

	case "all":
		// Combined mode: worker in the background, API in the foreground
		if collectionQueue != nil {
			go runWorkerMode(ctx, cfg, collectionQueue, distributedLock, searchService, exporter, logger)
		}
		runAPI(cfg, searchService, collectionService, exporter, backends, logger)

	default:
		logger.Error("unknown run mode", "mode", mode, "valid", "api, worker, all")
		os.Exit(1)
	}
}

// buildSearchService wires the catalog client, fetcher and expanders
// into the search orchestrator.
func buildSearchService(cfg config.Config, queryCache driven.QueryCache, logger *slog.Logger) driving.SearchService {
	creds, err := kaggle.LoadCredentials()
	if err != nil {
		logger.Warn("catalog credentials not found, using anonymous access", "error", err)
	}

	catalog := kaggle.NewCatalog(kaggle.Config{
		BaseURL:     cfg.Catalog.BaseURL,
		Timeout:     cfg.Catalog.Timeout(),
		Credentials: driven.NewStaticCredentialsProvider(creds),
	})

	fetcher := services.NewFetcher(catalog, services.FetcherConfig{
		MinDelay:   cfg.Catalog.MinDelay(),
		MaxDelay:   cfg.Catalog.MaxDelay(),
		MaxRetries: cfg.Catalog.MaxRetries,
		Logger:     logger,
	})

	return services.NewSearchService(services.SearchServiceConfig{
		Fetcher:            fetcher,
		Cache:              queryCache,
		Expanders:          expansion.DefaultRegistry(),
		Logger:             logger,
		Concurrency:        cfg.Search.Concurrency,
		MaxPages:           cfg.Search.MaxPages,
		FileDetailsPerPage: cfg.Search.FileDetailsPerPage,
		ColumnDelay:        cfg.Search.ColumnDelay(),
	})
}

func runAPI(
	cfg config.Config,
	searchService driving.SearchService,
	collectionService driving.CollectionService,
	exporter driving.MetadataExporter,
	backends *runtime.Backends,
	logger *slog.Logger,
) {
	serverCfg := http.Config{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		Version:         version,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		ReadTimeout:     cfg.HTTP.ReadTimeout(),
		WriteTimeout:    cfg.HTTP.WriteTimeout(),
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout(),
	}

	server := http.NewServer(serverCfg, searchService, collectionService, exporter, backends, logger)

	logger.Info("api server starting", "host", cfg.HTTP.Host, "port", cfg.HTTP.Port)
	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// runWorkerMode starts the collection worker and blocks until the
// context is cancelled.
func runWorkerMode(
	ctx context.Context,
	cfg config.Config,
	queue driven.CollectionQueue,
	lock driven.DistributedLock,
	searchService driving.SearchService,
	exporter driving.MetadataExporter,
	logger *slog.Logger,
) {
	w := worker.New(worker.Config{
		Queue:          queue,
		Lock:           lock,
		Searcher:       searchService,
		Exporter:       exporter,
		Logger:         logger,
		Concurrency:    cfg.Worker.Concurrency,
		DequeueTimeout: cfg.Worker.DequeueTimeout(),
		LockTTL:        cfg.Worker.LockTTL(),
		OutputDir:      cfg.Worker.OutputDir,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}
	logger.Info("worker started, draining collection queue")

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	logger.Info("stopping worker")
	w.Stop()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
