package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/metrics"
	"github.com/sievelabs/sieve-core/internal/ranking"
)

// Aggregation defaults.
const (
	defaultConcurrency = 4
	defaultColumnDelay = 5 * time.Second

	// Combined searches split the result budget across the four
	// dimensions regardless of how many the request carries.
	combinedDimensions = 4
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// SearchServiceConfig holds dependencies for the search orchestrator.
type SearchServiceConfig struct {
	Fetcher   *Fetcher
	Cache     driven.QueryCache
	Expanders driven.ExpanderRegistry
	Logger    *slog.Logger

	// Concurrency limits how many expanded queries fetch at once. The
	// fetcher's shared limiter keeps the aggregate request rate fixed
	// regardless of this value.
	Concurrency int

	// MaxPages bounds pagination per expanded query. 0 paginates until
	// the catalog returns an empty page.
	MaxPages int

	// FileDetailsPerPage caps file-listing enrichment per page.
	// 0 enriches every record, negative disables enrichment.
	FileDetailsPerPage int

	// ColumnDelay spaces successive columns in column-derived searches.
	ColumnDelay time.Duration
}

// searchService implements the SearchService interface.
type searchService struct {
	fetcher     *Fetcher
	cache       driven.QueryCache
	expanders   driven.ExpanderRegistry
	logger      *slog.Logger
	concurrency int
	maxPages    int
	fileDetails int
	columnDelay time.Duration
}

// NewSearchService creates the search orchestrator.
func NewSearchService(cfg SearchServiceConfig) driving.SearchService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	columnDelay := cfg.ColumnDelay
	if columnDelay <= 0 {
		columnDelay = defaultColumnDelay
	}

	return &searchService{
		fetcher:     cfg.Fetcher,
		cache:       cfg.Cache,
		expanders:   cfg.Expanders,
		logger:      logger,
		concurrency: concurrency,
		maxPages:    cfg.MaxPages,
		fileDetails: cfg.FileDetailsPerPage,
		columnDelay: columnDelay,
	}
}

// Search runs a combined multi-dimension search. A request with a single
// dimension behaves like a dedicated search for that dimension: it keeps
// the full result budget and ranks by the dimension's sort key. Combined
// requests split the budget, rank by relevance score and apply the
// multi-criteria boost during sorting.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.Normalize()

	combined := req.Dimensions() > 1
	dimCap := req.MaxResults
	if combined {
		dimCap = req.MaxResults / combinedDimensions
		if dimCap < 1 {
			dimCap = 1
		}
	}

	intents := buildIntents(req, dimCap)

	kindLabel := "combined"
	sortKey := domain.SortByScore
	if !combined {
		kindLabel = string(intents[0].Kind)
		sortKey = domain.SortKeyForKind(intents[0].Kind)
	}

	queries, err := s.expand(intents)
	if err != nil {
		return nil, err
	}

	outcomes, exhausted, runErr := s.runQueries(ctx, queries, s.fileDetails)

	var pipeline driven.ResultPipeline
	if combined {
		boost := func(r *domain.DatasetRecord) float64 {
			return ranking.Boost(r, req.Keywords, req.Tags, req.Columns)
		}
		pipeline = ranking.BoostedPipeline(boost, req.MaxResults)
	} else {
		pipeline = ranking.DefaultPipeline(sortKey, req.MaxResults)
	}

	result := s.assemble(outcomes, len(queries), exhausted, pipeline)

	metrics.SearchesTotal.WithLabelValues(kindLabel).Inc()
	metrics.SearchDuration.WithLabelValues(kindLabel).Observe(time.Since(start).Seconds())

	s.logger.Info("search completed",
		"kind", kindLabel,
		"queries", result.QueriesRun,
		"found", result.TotalFound,
		"returned", len(result.Records),
		"exhausted", len(result.ExhaustedQueries),
		"took", time.Since(start),
	)

	if runErr != nil {
		// Cancelled mid-run: hand back what was accumulated
		return result, runErr
	}
	return result, nil
}

// buildIntents maps the request onto intents in the fixed dimension
// order that also fixes discovery order for deduplication.
func buildIntents(req domain.SearchRequest, dimCap int) []domain.SearchIntent {
	var intents []domain.SearchIntent
	if len(req.Keywords) > 0 {
		intents = append(intents, domain.SearchIntent{Kind: domain.KindKeyword, Terms: req.Keywords, MaxResults: dimCap})
	}
	if len(req.Tags) > 0 {
		intents = append(intents, domain.SearchIntent{Kind: domain.KindTag, Terms: req.Tags, MaxResults: dimCap})
	}
	if len(req.FileTypes) > 0 {
		intents = append(intents, domain.SearchIntent{Kind: domain.KindFileType, Terms: req.FileTypes, MaxResults: dimCap})
	}
	if len(req.Columns) > 0 {
		intents = append(intents, domain.SearchIntent{Kind: domain.KindColumn, Terms: req.Columns, MaxResults: dimCap})
	}
	return intents
}

// expand runs every intent through its registered expander.
func (s *searchService) expand(intents []domain.SearchIntent) ([]driven.ExpandedQuery, error) {
	var queries []driven.ExpandedQuery
	for _, intent := range intents {
		if err := intent.Validate(); err != nil {
			return nil, err
		}
		expander := s.expanders.Get(intent.Kind)
		if expander == nil {
			return nil, fmt.Errorf("no expander registered for dimension %q: %w", intent.Kind, domain.ErrInvalidInput)
		}
		queries = append(queries, expander.Expand(intent)...)
	}
	return queries, nil
}

// runQueries executes expanded queries concurrently. Results are keyed
// by query index so assembly restores expansion order: deduplication
// depends on it, not on wall-clock completion order. The returned error
// is non-nil only for cancellation; per-query failures are absorbed.
func (s *searchService) runQueries(ctx context.Context, queries []driven.ExpandedQuery, fileDetails int) ([][]*domain.DatasetRecord, []string, error) {
	outcomes := make([][]*domain.DatasetRecord, len(queries))

	var mu sync.Mutex
	var exhausted []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			records, wasExhausted, err := s.runQuery(gctx, q, fileDetails)
			outcomes[i] = records

			if wasExhausted {
				mu.Lock()
				exhausted = append(exhausted, q.Query.Key())
				mu.Unlock()
			}
			return err
		})
	}

	err := g.Wait()
	sort.Strings(exhausted)
	return outcomes, exhausted, err
}

// runQuery resolves one expanded query: cache lookup, then fetch,
// normalize, filter and score on a miss. Retry exhaustion and fatal
// errors are absorbed here so one bad query never sinks the aggregation;
// only cancellation propagates.
func (s *searchService) runQuery(ctx context.Context, q driven.ExpandedQuery, fileDetails int) ([]*domain.DatasetRecord, bool, error) {
	key := q.Query.Key()

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		metrics.QueryCacheTotal.WithLabelValues("hit").Inc()
		return copyRecords(cached), false, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("query cache lookup failed", "key", key, "error", err)
	}
	metrics.QueryCacheTotal.WithLabelValues("miss").Inc()

	raw, fetchErr := s.fetcher.FetchAll(ctx, q.Query, FetchOptions{
		MaxPages:           s.maxPages,
		MaxRecords:         q.MaxResults,
		FileDetailsPerPage: fileDetails,
	})

	records := s.buildRecords(raw, q)

	if fetchErr != nil {
		if ctx.Err() != nil {
			return records, false, ctx.Err()
		}
		if errors.Is(fetchErr, domain.ErrExhausted) {
			s.logger.Warn("query abandoned after retry exhaustion", "key", key, "error", fetchErr)
			return records, true, nil
		}
		s.logger.Error("query failed", "key", key, "error", fetchErr)
		return records, false, nil
	}

	if err := s.cache.Set(ctx, key, records); err != nil {
		s.logger.Warn("query cache store failed", "key", key, "error", err)
	}

	// Callers receive copies so the cached set stays pristine when the
	// combined ranking adjusts scores later.
	return copyRecords(records), false, nil
}

// buildRecords normalizes raw catalog records, drops malformed ones and
// records outside a required tag, and stamps score and provenance.
func (s *searchService) buildRecords(raw []domain.RawDataset, q driven.ExpandedQuery) []*domain.DatasetRecord {
	records := make([]*domain.DatasetRecord, 0, len(raw))
	for _, rd := range raw {
		record, err := domain.NewDatasetRecord(rd)
		if err != nil {
			s.logger.Warn("skipping malformed record", "ref", rd.Ref, "error", err)
			continue
		}
		if q.RequireTag != "" && !record.HasTag(q.RequireTag) {
			continue
		}
		record.SearchScore = ranking.Score(record, q.ScoreTerm)
		record.SearchMethod = q.Method
		records = append(records, record)
	}
	return records
}

// assemble concatenates per-query outcomes in expansion order and runs
// the result pipeline over them.
func (s *searchService) assemble(outcomes [][]*domain.DatasetRecord, queriesRun int, exhausted []string, pipeline driven.ResultPipeline) *domain.SearchResult {
	var all []*domain.DatasetRecord
	for _, records := range outcomes {
		all = append(all, records...)
	}

	total := len(all)
	metrics.DatasetsFoundTotal.Add(float64(total))

	return &domain.SearchResult{
		Records:          pipeline.Process(all),
		TotalFound:       total,
		QueriesRun:       queriesRun,
		ExhaustedQueries: exhausted,
	}
}

// copyRecords clones records so shared cache state never aliases the
// sets handed to rankers and callers.
func copyRecords(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	out := make([]*domain.DatasetRecord, len(records))
	for i, r := range records {
		c := *r
		out[i] = &c
	}
	return out
}
