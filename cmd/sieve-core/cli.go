package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/sievelabs/sieve-core/internal/adapters/driven/cache"
	"github.com/sievelabs/sieve-core/internal/config"
	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/export"
)

// runCLI executes a one-shot command against the catalog. Logs go to
// stderr so stdout stays valid JSON.
func runCLI(cfg config.Config) {
	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searcher := buildSearchService(cfg, cliQueryCache(ctx, cfg, logger), logger)

	app := newCLIApp(searcher, export.NewCSVExporter())
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cliQueryCache prefers the shared Redis cache when one is configured:
// a one-shot run only benefits from caching when entries outlive the
// process. Anything short of a working Redis falls back to an
// in-process LRU.
func cliQueryCache(ctx context.Context, cfg config.Config, logger *slog.Logger) driven.QueryCache {
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Warn("invalid redis url, using in-process cache", "error", err)
		} else {
			client := redis.NewClient(opts)
			if pingErr := client.Ping(ctx).Err(); pingErr == nil {
				return cache.NewRedisCache(client, cache.DefaultTTL)
			} else {
				logger.Warn("redis unreachable, using in-process cache", "error", pingErr)
				_ = client.Close()
			}
		}
	}

	lruCache, err := cache.NewLRUCache(cfg.Search.CacheSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create query cache: %v\n", err)
		os.Exit(1)
	}
	return lruCache
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(searcher driving.SearchService, exporter driving.MetadataExporter) *cli.App {
	app := &cli.App{
		Name:    "sieve-core",
		Usage:   "Dataset metadata search and collection",
		Version: version,
		Commands: []*cli.Command{
			searchCmd(searcher, exporter),
			columnsCmd(searcher, exporter),
			collectCmd(searcher, exporter),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// searchCmd creates the search command.
func searchCmd(searcher driving.SearchService, exporter driving.MetadataExporter) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the catalog by keywords, tags, file types and column names",
		ArgsUsage: "[keywords...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Comma-separated tag filters"},
			&cli.StringFlag{Name: "file-types", Aliases: []string{"f"}, Usage: "Comma-separated file type filters (csv, json, ...)"},
			&cli.StringFlag{Name: "columns", Aliases: []string{"c"}, Usage: "Comma-separated column names"},
			&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Value: domain.DefaultMaxResults, Usage: "Maximum datasets to return"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write results to a CSV file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			req := domain.SearchRequest{
				Keywords:   c.Args().Slice(),
				Tags:       parseList(c.String("tags")),
				FileTypes:  parseList(c.String("file-types")),
				Columns:    parseList(c.String("columns")),
				MaxResults: c.Int("max"),
			}

			result, err := searcher.Search(c.Context, req)
			if err != nil {
				return outputError(err)
			}
			return outputResult(result, c.String("out"), exporter)
		},
	}
}

// columnsCmd creates the columns command.
func columnsCmd(searcher driving.SearchService, exporter driving.MetadataExporter) *cli.Command {
	return &cli.Command{
		Name:      "columns",
		Usage:     "Search the catalog using column headers read from tabular files",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Value: domain.DefaultMaxResults, Usage: "Maximum datasets to return"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write results to a CSV file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return outputError(errors.New("at least one tabular file is required"))
			}

			result, err := searcher.SearchByColumnFiles(c.Context, paths, c.Int("max"))
			if err != nil {
				return outputError(err)
			}
			return outputResult(result, c.String("out"), exporter)
		},
	}
}

// collectCmd creates the collect command.
func collectCmd(searcher driving.SearchService, exporter driving.MetadataExporter) *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Usage:     "Run a comprehensive collection for a domain and write a CSV snapshot",
		ArgsUsage: "<domain>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Value: domain.DefaultCollectionCap, Usage: "Maximum datasets to collect"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Snapshot path (default: " + export.DefaultFilename + ")"},
		},
		Action: func(c *cli.Context) error {
			domainName := c.Args().First()
			if domainName == "" {
				return outputError(errors.New("a collection domain is required"))
			}

			result, err := searcher.ComprehensiveCollection(c.Context, domainName, c.Int("max"))
			if err != nil {
				return outputError(err)
			}

			written, err := exporter.ExportFile(c.String("out"), result.Records)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(collectOutput{
				Domain:     domainName,
				Datasets:   len(result.Records),
				QueriesRun: result.QueriesRun,
				Output:     written,
			})
		},
	}
}

type collectOutput struct {
	Domain     string `json:"domain"`
	Datasets   int    `json:"datasets"`
	QueriesRun int    `json:"queries_run"`
	Output     string `json:"output"`
}

type exportOutput struct {
	Datasets int    `json:"datasets"`
	Output   string `json:"output"`
}

// Helper functions

// outputResult prints the result as JSON, or writes a CSV file when an
// output path was given.
func outputResult(result *domain.SearchResult, outPath string, exporter driving.MetadataExporter) error {
	if outPath == "" {
		return outputJSON(result)
	}
	written, err := exporter.ExportFile(outPath, result.Records)
	if err != nil {
		return outputError(err)
	}
	return outputJSON(exportOutput{Datasets: len(result.Records), Output: written})
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}

// parseList splits a comma-separated string into trimmed items.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			items = append(items, t)
		}
	}
	return items
}
