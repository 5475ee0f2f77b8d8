package driven

import "github.com/sievelabs/sieve-core/internal/core/domain"

// ExpandedQuery is one concrete catalog query produced from an intent,
// together with the context needed to score and attribute its results.
type ExpandedQuery struct {
	// Query is the catalog call to make
	Query domain.CatalogQuery

	// ScoreTerm is the term relevance scoring runs against. For keyword
	// queries it is the variation itself; for column queries it is the
	// base column keyword, not the variant.
	ScoreTerm string

	// Method is the provenance string stamped on produced records
	Method string

	// MaxResults caps how many records are taken from this query
	MaxResults int

	// RequireTag, when non-empty, keeps only records whose tag set
	// actually contains the tag. Used by tag-scoped queries because the
	// remote text match is broader than tag membership.
	RequireTag string
}

// QueryExpander deterministically expands one search intent into its
// concrete catalog queries, splitting the intent's result cap across
// terms and variations.
type QueryExpander interface {
	// Kind returns the search dimension this expander handles.
	Kind() domain.IntentKind

	// Expand maps the intent to its concrete query set.
	Expand(intent domain.SearchIntent) []ExpandedQuery
}

// ExpanderRegistry manages the per-dimension query expanders.
type ExpanderRegistry interface {
	// Get retrieves the expander for a search dimension.
	// Returns nil if none is registered.
	Get(kind domain.IntentKind) QueryExpander

	// Register registers an expander, replacing any previous one for
	// the same kind.
	Register(expander QueryExpander)

	// List returns the registered dimensions.
	List() []domain.IntentKind
}
