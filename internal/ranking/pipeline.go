package ranking

import (
	"sort"
	"sync"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultPipeline = (*Pipeline)(nil)

// Pipeline implements ResultPipeline.
// It chains result processors sorted by Order(): dedup, sort, truncate.
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.ResultProcessor
	sorted     bool
}

// NewPipeline creates an empty result pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		processors: make([]driven.ResultProcessor, 0),
	}
}

// Add adds a stage to the pipeline.
// Stages are sorted by Order() before processing.
func (p *Pipeline) Add(processor driven.ResultProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	p.sorted = false
}

// Process applies all stages in order. The input order must reflect
// discovery order: the deduper keeps the first occurrence of a reference.
func (p *Pipeline) Process(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	p.mu.Lock()
	if !p.sorted {
		sort.SliceStable(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}
	p.mu.Unlock()

	p.mu.RLock()
	processors := make([]driven.ResultProcessor, len(p.processors))
	copy(processors, p.processors)
	p.mu.RUnlock()

	for _, proc := range processors {
		records = proc.Process(records)
	}
	return records
}

// List returns stage names in order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

// DefaultPipeline builds the standard dedupe, sort, truncate chain.
// maxResults <= 0 disables truncation.
func DefaultPipeline(key domain.SortKey, maxResults int) *Pipeline {
	p := NewPipeline()
	p.Add(NewDeduper())
	p.Add(NewSorter(key))
	p.Add(NewTruncator(maxResults))
	return p
}

// BoostedPipeline builds the combined-ranking chain: dedupe, sort by
// score plus boost, truncate.
func BoostedPipeline(boost func(*domain.DatasetRecord) float64, maxResults int) *Pipeline {
	p := NewPipeline()
	p.Add(NewDeduper())
	p.Add(NewBoostedSorter(boost))
	p.Add(NewTruncator(maxResults))
	return p
}

// ColumnPipeline builds the chain for column-derived searches, which
// deduplicate across source files by (title, reference) pair.
func ColumnPipeline(maxResults int) *Pipeline {
	p := NewPipeline()
	p.Add(NewPairDeduper())
	p.Add(NewSorter(domain.SortByScore))
	p.Add(NewTruncator(maxResults))
	return p
}

// Deduper drops records whose reference was already seen. The first
// occurrence wins, so input order decides which score survives.
type Deduper struct{}

// Verify interface compliance
var _ driven.ResultProcessor = (*Deduper)(nil)

func NewDeduper() *Deduper {
	return &Deduper{}
}

func (d *Deduper) Process(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	if len(records) <= 1 {
		return records
	}

	seen := make(map[string]bool, len(records))
	result := make([]*domain.DatasetRecord, 0, len(records))

	for _, record := range records {
		if record == nil || seen[record.Reference] {
			continue
		}
		seen[record.Reference] = true
		result = append(result, record)
	}
	return result
}

func (d *Deduper) Name() string {
	return "deduper"
}

// Order returns 10 - dedup runs first, on raw discovery order.
func (d *Deduper) Order() int {
	return 10
}

// PairDeduper drops records whose (title, reference) pair was already
// seen. Column-derived searches use it so the same dataset surfacing
// from several files' columns appears once.
type PairDeduper struct{}

// Verify interface compliance
var _ driven.ResultProcessor = (*PairDeduper)(nil)

func NewPairDeduper() *PairDeduper {
	return &PairDeduper{}
}

func (d *PairDeduper) Process(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	if len(records) <= 1 {
		return records
	}

	seen := make(map[string]bool, len(records))
	result := make([]*domain.DatasetRecord, 0, len(records))

	for _, record := range records {
		if record == nil {
			continue
		}
		key := record.Title + "\x00" + record.Reference
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, record)
	}
	return result
}

func (d *PairDeduper) Name() string {
	return "pair-deduper"
}

// Order returns 10 - dedup runs first, on raw discovery order.
func (d *PairDeduper) Order() int {
	return 10
}

// Sorter orders records descending by the configured key. Ties are
// broken by reference ascending so output is deterministic. An optional
// boost adjusts the effective score during sorting without touching the
// record's stored score.
type Sorter struct {
	key   domain.SortKey
	boost func(*domain.DatasetRecord) float64
}

// Verify interface compliance
var _ driven.ResultProcessor = (*Sorter)(nil)

func NewSorter(key domain.SortKey) *Sorter {
	return &Sorter{key: key}
}

// NewBoostedSorter sorts by relevance score plus a per-record boost,
// used for combined multi-dimension ranking.
func NewBoostedSorter(boost func(*domain.DatasetRecord) float64) *Sorter {
	return &Sorter{key: domain.SortByScore, boost: boost}
}

func (s *Sorter) Process(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch s.key {
		case domain.SortByVotes:
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
		case domain.SortBySize:
			if a.SizeBytes != b.SizeBytes {
				return a.SizeBytes > b.SizeBytes
			}
		default:
			as, bs := a.SearchScore, b.SearchScore
			if s.boost != nil {
				as += s.boost(a)
				bs += s.boost(b)
			}
			if as != bs {
				return as > bs
			}
		}
		return a.Reference < b.Reference
	})
	return records
}

func (s *Sorter) Name() string {
	return "sorter:" + string(s.key)
}

// Order returns 20 - sort runs after dedup.
func (s *Sorter) Order() int {
	return 20
}

// Truncator caps the result length. It must run after the sorter so a
// late high-scoring record can displace an earlier low-scoring one.
type Truncator struct {
	max int
}

// Verify interface compliance
var _ driven.ResultProcessor = (*Truncator)(nil)

func NewTruncator(max int) *Truncator {
	return &Truncator{max: max}
}

func (t *Truncator) Process(records []*domain.DatasetRecord) []*domain.DatasetRecord {
	if t.max <= 0 || len(records) <= t.max {
		return records
	}
	return records[:t.max]
}

func (t *Truncator) Name() string {
	return "truncator"
}

// Order returns 30 - truncation is always last.
func (t *Truncator) Order() int {
	return 30
}
