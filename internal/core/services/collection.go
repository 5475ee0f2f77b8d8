package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/expansion"
	"github.com/sievelabs/sieve-core/internal/metrics"
	"github.com/sievelabs/sieve-core/internal/ranking"
)

// Per-query caps for comprehensive collection. Collection sweeps run
// dozens of queries, so each one stays small.
const (
	collectionKeywordCap  = 30
	collectionTagCap      = 20
	collectionFileTypeCap = 15
	collectionColumnCap   = 10

	// columnVariantsPerTerm mirrors the column expander's fan-out.
	columnVariantsPerTerm = 6
)

// collectionFileTypes are the formats worth sweeping in bulk.
var collectionFileTypes = []string{"csv", "json", "xlsx"}

// ComprehensiveCollection sweeps every search dimension for a domain:
// keyword variations, taxonomy tags, common file types and the domain's
// column vocabulary. File listings are not fetched, a sweep already runs
// enough queries. The combined set is deduplicated, ranked by score and
// capped at maxTotal.
func (s *searchService) ComprehensiveCollection(ctx context.Context, domainName string, maxTotal int) (*domain.SearchResult, error) {
	start := time.Now()

	domainName = strings.ToLower(strings.TrimSpace(domainName))
	if domainName == "" {
		return nil, fmt.Errorf("collection domain is required: %w", domain.ErrInvalidInput)
	}
	if maxTotal <= 0 {
		maxTotal = domain.DefaultCollectionCap
	}

	columnKeywords := expansion.DomainColumnKeywords(domainName)

	// Intent caps are sized so each expanded query lands on its fixed
	// per-query cap after the expander splits them.
	intents := []domain.SearchIntent{
		{Kind: domain.KindKeyword, Terms: []string{domainName}, MaxResults: collectionKeywordCap},
		{Kind: domain.KindTag, Terms: []string{domainName}, MaxResults: collectionTagCap},
		{Kind: domain.KindFileType, Terms: collectionFileTypes, MaxResults: collectionFileTypeCap * len(collectionFileTypes)},
		{Kind: domain.KindColumn, Terms: columnKeywords, MaxResults: collectionColumnCap * columnVariantsPerTerm * len(columnKeywords)},
	}

	queries, err := s.expand(intents)
	if err != nil {
		return nil, err
	}

	s.logger.Info("comprehensive collection started",
		"domain", domainName,
		"queries", len(queries),
		"column_keywords", len(columnKeywords),
		"max_total", maxTotal,
	)

	outcomes, exhausted, runErr := s.runQueries(ctx, queries, -1)

	result := s.assemble(outcomes, len(queries), exhausted, ranking.DefaultPipeline(domain.SortByScore, maxTotal))

	metrics.SearchesTotal.WithLabelValues("collection").Inc()
	metrics.SearchDuration.WithLabelValues("collection").Observe(time.Since(start).Seconds())

	s.logger.Info("comprehensive collection completed",
		"domain", domainName,
		"queries", result.QueriesRun,
		"found", result.TotalFound,
		"returned", len(result.Records),
		"exhausted", len(result.ExhaustedQueries),
		"took", time.Since(start),
	)

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}
