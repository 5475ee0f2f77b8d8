package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
	"github.com/sievelabs/sieve-core/internal/metrics"
)

// Pacing and retry defaults. The remote catalog tolerates roughly one
// request per second per client before it starts shedding load.
const (
	defaultMinDelay    = time.Second
	defaultMaxDelay    = 3 * time.Second
	defaultBackoffBase = time.Second
	defaultMaxRetries  = 3
)

// FetcherConfig configures pacing and retry behavior.
// Zero values fall back to the defaults above.
type FetcherConfig struct {
	// MinDelay is the minimum spacing between remote calls. Each call
	// is additionally smeared across [MinDelay, MinDelay*1.5].
	MinDelay time.Duration

	// MaxDelay caps a single backoff sleep.
	MaxDelay time.Duration

	// BackoffBase scales both backoff curves.
	BackoffBase time.Duration

	// MaxRetries bounds retries per call: a call runs at most
	// MaxRetries+1 times before it is abandoned.
	MaxRetries int

	// Limiter paces calls across every fetcher sharing it. Nil creates
	// a private limiter from MinDelay.
	Limiter *rate.Limiter

	// Jitter is the randomness source, in [0,1). Nil uses math/rand.
	Jitter func() float64

	Logger *slog.Logger
}

func (c *FetcherConfig) applyDefaults() {
	if c.MinDelay <= 0 {
		c.MinDelay = defaultMinDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = defaultMaxDelay
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = defaultBackoffBase
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.Limiter == nil {
		c.Limiter = rate.NewLimiter(rate.Every(c.MinDelay), 1)
	}
	if c.Jitter == nil {
		c.Jitter = rand.Float64
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// FetchOptions bounds one accumulation run.
type FetchOptions struct {
	// MaxPages stops pagination after this many pages. 0 means paginate
	// until the catalog returns an empty page.
	MaxPages int

	// MaxRecords stops accumulation once this many records were taken.
	// 0 means unbounded.
	MaxRecords int

	// FileDetailsPerPage limits file-listing enrichment to the first N
	// records of each page. 0 enriches every record, negative skips
	// enrichment entirely.
	FileDetailsPerPage int
}

// Fetcher wraps the raw catalog port with pacing, bounded retries and
// pagination. One Fetcher is safe for concurrent use; queries sharing it
// also share its rate limiter.
type Fetcher struct {
	catalog driven.DatasetCatalog
	cfg     FetcherConfig
	logger  *slog.Logger
}

// NewFetcher creates a paced, retrying fetcher over the catalog.
func NewFetcher(catalog driven.DatasetCatalog, cfg FetcherConfig) *Fetcher {
	cfg.applyDefaults()
	return &Fetcher{
		catalog: catalog,
		cfg:     cfg,
		logger:  cfg.Logger,
	}
}

// FetchPage retrieves a single result page, retrying per the configured
// policy. Rate-limit rejections back off exponentially, transient network
// failures linearly; any other error propagates immediately. When the
// retry budget runs out the returned error wraps domain.ErrExhausted.
func (f *Fetcher) FetchPage(ctx context.Context, query domain.CatalogQuery) (domain.CatalogPage, error) {
	var page domain.CatalogPage
	err := f.withRetry(ctx, "search", func(ctx context.Context) error {
		var callErr error
		page, callErr = f.catalog.Search(ctx, query)
		return callErr
	})
	if err != nil {
		return domain.CatalogPage{}, err
	}
	return page, nil
}

// ListFiles retrieves the file listing for one dataset with the same
// pacing and retry policy as page fetches.
func (f *Fetcher) ListFiles(ctx context.Context, reference string) ([]domain.DatasetFile, error) {
	var files []domain.DatasetFile
	err := f.withRetry(ctx, "list_files", func(ctx context.Context) error {
		var callErr error
		files, callErr = f.catalog.ListFiles(ctx, reference)
		return callErr
	})
	return files, err
}

// FetchAll accumulates records across pages, starting at page 1. An empty
// page is the natural end of results; MaxPages and MaxRecords bound the
// run earlier. On error the records accumulated so far are returned
// alongside it, so one failed query never discards prior work.
func (f *Fetcher) FetchAll(ctx context.Context, query domain.CatalogQuery, opts FetchOptions) ([]domain.RawDataset, error) {
	var all []domain.RawDataset

	for page := 1; ; page++ {
		if opts.MaxPages > 0 && page > opts.MaxPages {
			break
		}
		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			break
		}

		q := query
		q.Page = page

		result, err := f.FetchPage(ctx, q)
		if err != nil {
			return all, err
		}
		if len(result.Records) == 0 {
			break
		}

		records := result.Records
		if opts.MaxRecords > 0 {
			if remaining := opts.MaxRecords - len(all); len(records) > remaining {
				records = records[:remaining]
			}
		}

		f.enrich(ctx, records, opts.FileDetailsPerPage)
		all = append(all, records...)
	}

	return all, nil
}

// enrich attaches file listings to up to limit records of one page.
// A failed listing keeps the record, just without file details.
func (f *Fetcher) enrich(ctx context.Context, records []domain.RawDataset, limit int) {
	if limit < 0 {
		return
	}
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}

	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		if len(records[i].Files) > 0 {
			continue
		}

		files, err := f.ListFiles(ctx, records[i].Ref)
		if err != nil {
			f.logger.Warn("file listing failed, keeping record without file details",
				"ref", records[i].Ref,
				"error", err,
			)
			continue
		}
		records[i].Files = files
	}
}

// withRetry runs one catalog call with pre-call pacing and the bounded
// retry policy.
func (f *Fetcher) withRetry(ctx context.Context, endpoint string, call func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if err := f.pace(ctx); err != nil {
			return err
		}

		start := time.Now()
		err := call(ctx)
		metrics.CatalogRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
			return nil
		}
		lastErr = err

		var delay time.Duration
		var reason string
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			reason = "rate_limited"
			delay = f.backoffExponential(attempt)
		case errors.Is(err, domain.ErrTransient):
			reason = "transient"
			delay = f.backoffLinear(attempt)
		default:
			metrics.CatalogRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return err
		}
		metrics.CatalogRequestsTotal.WithLabelValues(endpoint, reason).Inc()

		if attempt == f.cfg.MaxRetries {
			break
		}

		metrics.CatalogRetriesTotal.WithLabelValues(endpoint, reason).Inc()
		f.logger.Warn("catalog call failed, backing off",
			"endpoint", endpoint,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	metrics.QueriesExhaustedTotal.Inc()
	return fmt.Errorf("%s failed after %d attempts: %v: %w",
		endpoint, f.cfg.MaxRetries+1, lastErr, domain.ErrExhausted)
}

// pace enforces the minimum spacing between remote calls, then smears the
// call across [MinDelay, MinDelay*1.5] so concurrent searches do not
// synchronize into bursts.
func (f *Fetcher) pace(ctx context.Context) error {
	if err := f.cfg.Limiter.Wait(ctx); err != nil {
		return err
	}

	jitter := time.Duration(f.cfg.Jitter() * float64(f.cfg.MinDelay) / 2)
	if jitter <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
		return nil
	}
}

// backoffExponential grows base*2^attempt plus up to a second of jitter,
// capped at MaxDelay.
func (f *Fetcher) backoffExponential(attempt int) time.Duration {
	backoff := f.cfg.BackoffBase * time.Duration(1<<uint(attempt))
	backoff += time.Duration(f.cfg.Jitter() * float64(time.Second))
	if backoff > f.cfg.MaxDelay {
		backoff = f.cfg.MaxDelay
	}
	return backoff
}

// backoffLinear grows base*(attempt+1), capped at MaxDelay.
func (f *Fetcher) backoffLinear(attempt int) time.Duration {
	backoff := f.cfg.BackoffBase * time.Duration(attempt+1)
	if backoff > f.cfg.MaxDelay {
		backoff = f.cfg.MaxDelay
	}
	return backoff
}
