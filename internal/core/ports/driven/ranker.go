package driven

import "github.com/sievelabs/sieve-core/internal/core/domain"

// ResultProcessor is one stage of the result pipeline: deduplication,
// sorting or capping. Stages receive the records from the previous stage
// and must not mutate individual records.
type ResultProcessor interface {
	// Process transforms the record list.
	Process(records []*domain.DatasetRecord) []*domain.DatasetRecord

	// Name returns the stage name for logging/debugging.
	Name() string

	// Order returns the stage order in the pipeline (lower = earlier).
	Order() int
}

// ResultPipeline chains result processors in order. Input order is
// significant: it must reflect method order then within-method discovery
// order, because deduplication keeps the first occurrence of a reference.
type ResultPipeline interface {
	// Process applies all stages in order.
	Process(records []*domain.DatasetRecord) []*domain.DatasetRecord

	// Add adds a stage. Stages are sorted by Order() before processing.
	Add(processor ResultProcessor)

	// List returns stage names in order.
	List() []string
}
