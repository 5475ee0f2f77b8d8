package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/metrics"
	"github.com/sievelabs/sieve-core/internal/ranking"
	"github.com/sievelabs/sieve-core/internal/tabular"
)

// SearchByColumns derives one intent per searchable column and runs the
// columns sequentially, spaced by the configured delay so schema-driven
// bursts stay polite toward the remote. Results are deduplicated across
// files by (title, reference) and ranked by score.
func (s *searchService) SearchByColumns(ctx context.Context, schemas []domain.TableSchema, maxResults int) (*domain.SearchResult, error) {
	start := time.Now()

	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}

	columns := searchableColumns(schemas)
	if len(columns) == 0 {
		return nil, fmt.Errorf("no searchable columns in %d schema(s): %w", len(schemas), domain.ErrInvalidInput)
	}

	perColumn := maxResults / len(columns)
	if perColumn < 1 {
		perColumn = 1
	}

	var (
		outcomes   [][]*domain.DatasetRecord
		exhausted  []string
		queriesRun int
		runErr     error
	)

	for i, column := range columns {
		if i > 0 {
			if err := s.pauseBetweenColumns(ctx); err != nil {
				runErr = err
				break
			}
		}

		intent := domain.SearchIntent{
			Kind:       domain.KindColumn,
			Terms:      []string{column},
			MaxResults: perColumn,
		}
		queries, err := s.expand([]domain.SearchIntent{intent})
		if err != nil {
			return nil, err
		}

		colOutcomes, colExhausted, err := s.runQueries(ctx, queries, s.fileDetails)
		outcomes = append(outcomes, colOutcomes...)
		exhausted = append(exhausted, colExhausted...)
		queriesRun += len(queries)
		if err != nil {
			runErr = err
			break
		}
	}

	result := s.assemble(outcomes, queriesRun, exhausted, ranking.ColumnPipeline(maxResults))

	metrics.SearchesTotal.WithLabelValues("column").Inc()
	metrics.SearchDuration.WithLabelValues("column").Observe(time.Since(start).Seconds())

	s.logger.Info("column search completed",
		"columns", len(columns),
		"queries", result.QueriesRun,
		"found", result.TotalFound,
		"returned", len(result.Records),
		"took", time.Since(start),
	)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// SearchByColumnFiles reads the header rows of the given tabular files
// and searches by the columns found. An unreadable file is skipped and
// logged; the call fails only when no file could be read at all.
func (s *searchService) SearchByColumnFiles(ctx context.Context, paths []string, maxResults int) (*domain.SearchResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schema files given: %w", domain.ErrInvalidInput)
	}

	schemas := make([]domain.TableSchema, 0, len(paths))
	for _, path := range paths {
		schema, err := tabular.ReadSchema(path)
		if err != nil {
			s.logger.Warn("skipping unreadable schema file", "path", path, "error", err)
			continue
		}
		schemas = append(schemas, schema)
	}
	if len(schemas) == 0 {
		return nil, fmt.Errorf("none of the %d schema file(s) could be read: %w", len(paths), domain.ErrFileRead)
	}

	return s.SearchByColumns(ctx, schemas, maxResults)
}

// pauseBetweenColumns applies the inter-column delay, honoring cancellation.
func (s *searchService) pauseBetweenColumns(ctx context.Context) error {
	if s.columnDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.columnDelay):
		return nil
	}
}

// searchableColumns flattens schemas into the distinct searchable column
// list: identifier-like names dropped, lowercased for stable query and
// cache keys, first-occurrence order preserved across files.
func searchableColumns(schemas []domain.TableSchema) []string {
	var out []string
	seen := make(map[string]bool)
	for _, schema := range schemas {
		for _, col := range schema.SearchableColumns() {
			name := strings.ToLower(strings.TrimSpace(col))
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
