package expansion

import (
	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.QueryExpander = (*KeywordExpander)(nil)
	_ driven.QueryExpander = (*TagExpander)(nil)
	_ driven.QueryExpander = (*FileTypeExpander)(nil)
	_ driven.QueryExpander = (*ColumnExpander)(nil)
)

// keywordVariations returns the fixed query variations for one keyword.
// Order is significant: it fixes discovery order for dedup tie-breaking.
func keywordVariations(keyword string) []string {
	return []string{
		keyword,
		keyword + " data",
		keyword + " dataset",
		keyword + " analytics",
		keyword + " analysis",
		keyword + " machine learning",
		keyword + " csv",
		keyword + " json",
	}
}

// columnVariants returns the fixed query phrasings for one column name.
func columnVariants(column string) []string {
	return []string{
		column,
		"column " + column,
		"field " + column,
		"feature " + column,
		"variable " + column,
		column + " data",
	}
}

// perTermCap splits an intent cap across its terms, never below one.
func perTermCap(maxResults, terms int) int {
	if terms <= 0 {
		return maxResults
	}
	limit := maxResults / terms
	if limit < 1 {
		limit = 1
	}
	return limit
}

// KeywordExpander expands each keyword into its free-text variations.
// Records from a variation query are scored against the variation itself.
type KeywordExpander struct{}

func (e *KeywordExpander) Kind() domain.IntentKind {
	return domain.KindKeyword
}

func (e *KeywordExpander) Expand(intent domain.SearchIntent) []driven.ExpandedQuery {
	limit := perTermCap(intent.MaxResults, len(intent.Terms))

	queries := make([]driven.ExpandedQuery, 0, len(intent.Terms)*8)
	for _, keyword := range intent.Terms {
		for _, variation := range keywordVariations(keyword) {
			queries = append(queries, driven.ExpandedQuery{
				Query:      domain.CatalogQuery{Text: variation},
				ScoreTerm:  variation,
				Method:     domain.KeywordMethod(variation),
				MaxResults: limit,
			})
		}
	}
	return queries
}

// TagExpander expands each tag through the taxonomy into tag-scoped
// queries. Results are filtered to records actually carrying the tag.
type TagExpander struct{}

func (e *TagExpander) Kind() domain.IntentKind {
	return domain.KindTag
}

func (e *TagExpander) Expand(intent domain.SearchIntent) []driven.ExpandedQuery {
	limit := perTermCap(intent.MaxResults, len(intent.Terms))

	var queries []driven.ExpandedQuery
	for _, base := range intent.Terms {
		for _, tag := range ExpandTag(base) {
			queries = append(queries, driven.ExpandedQuery{
				Query:      domain.CatalogQuery{Tag: tag},
				ScoreTerm:  tag,
				Method:     domain.TagMethod(tag),
				MaxResults: limit,
				RequireTag: tag,
			})
		}
	}
	return queries
}

// FileTypeExpander maps each file type to a single filtered query.
type FileTypeExpander struct{}

func (e *FileTypeExpander) Kind() domain.IntentKind {
	return domain.KindFileType
}

func (e *FileTypeExpander) Expand(intent domain.SearchIntent) []driven.ExpandedQuery {
	limit := perTermCap(intent.MaxResults, len(intent.Terms))

	queries := make([]driven.ExpandedQuery, 0, len(intent.Terms))
	for _, fileType := range intent.Terms {
		queries = append(queries, driven.ExpandedQuery{
			Query:      domain.CatalogQuery{FileType: fileType},
			ScoreTerm:  fileType,
			Method:     domain.FileTypeMethod(fileType),
			MaxResults: limit,
		})
	}
	return queries
}

// ColumnExpander expands each column name into its query phrasings.
// Scoring and provenance use the base column name, not the phrasing, so
// every variant of one column contributes to the same logical match.
type ColumnExpander struct{}

func (e *ColumnExpander) Kind() domain.IntentKind {
	return domain.KindColumn
}

func (e *ColumnExpander) Expand(intent domain.SearchIntent) []driven.ExpandedQuery {
	// The cap splits across columns and their variants so a wide schema
	// cannot flood the aggregation.
	limit := perTermCap(intent.MaxResults, len(intent.Terms)*6)

	queries := make([]driven.ExpandedQuery, 0, len(intent.Terms)*6)
	for _, column := range intent.Terms {
		for _, variant := range columnVariants(column) {
			queries = append(queries, driven.ExpandedQuery{
				Query:      domain.CatalogQuery{Text: variant},
				ScoreTerm:  column,
				Method:     domain.ColumnMethod(column),
				MaxResults: limit,
			})
		}
	}
	return queries
}
