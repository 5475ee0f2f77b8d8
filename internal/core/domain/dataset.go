package domain

import (
	"fmt"
	"path"
	"strings"
)

// MaxDescriptionChars bounds stored descriptions to keep records and
// downstream payloads small.
const MaxDescriptionChars = 500

// DefaultMaxResults is the result cap applied when a caller does not set one.
const DefaultMaxResults = 100

// DatasetRecord is one discovered dataset. Records are value objects:
// created fresh per search call and never mutated after scoring.
type DatasetRecord struct {
	// Reference is the opaque unique identity (owner/slug form).
	// It is the sole deduplication key and is never regenerated.
	Reference   string  `json:"reference"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SizeBytes   int64   `json:"size_bytes"`
	LastUpdated string  `json:"last_updated"` // service-native format, passed through verbatim
	Downloads   int     `json:"download_count"`
	Votes       int     `json:"vote_count"`
	Usability   float64 `json:"usability_rating"` // 0-10 scale

	// Tags is a set of normalized lowercase strings; order is not significant.
	Tags []string `json:"tags"`

	// FileTypes is a set of lowercase extensions; ["unknown"] when undeterminable.
	FileTypes []string `json:"file_types"`

	// EstimatedRows is derived from size and file type; advisory only.
	EstimatedRows int64 `json:"estimated_rows"`

	// SearchScore is recomputed per query context; the same reference can
	// carry different scores depending on which intent produced it.
	SearchScore float64 `json:"search_score"`

	// SearchMethod records which intent produced this hit. Provenance
	// only, never identity.
	SearchMethod string `json:"search_method"`
}

// HasTag reports whether the record carries the given tag
// (case-insensitive; record tags are already lowercase).
func (r *DatasetRecord) HasTag(tag string) bool {
	needle := strings.ToLower(tag)
	for _, t := range r.Tags {
		if t == needle {
			return true
		}
	}
	return false
}

// Provenance strings follow the remote wire form used throughout the
// system: "<method>:<term>".
func KeywordMethod(variation string) string { return "keyword:" + variation }
func TagMethod(tag string) string           { return "tag:" + tag }
func FileTypeMethod(fileType string) string { return "file_type:" + fileType }
func ColumnMethod(column string) string     { return "column:" + column }

// NewDatasetRecord normalizes a raw catalog record into a DatasetRecord.
// Records missing a reference or title are malformed and rejected with
// ErrMalformedRecord; callers skip and log them, they are never fatal.
func NewDatasetRecord(raw RawDataset) (*DatasetRecord, error) {
	if raw.Ref == "" {
		return nil, fmt.Errorf("record without reference: %w", ErrMalformedRecord)
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("record %s without title: %w", raw.Ref, ErrMalformedRecord)
	}

	fileTypes := ExtractFileTypes(raw.Files)

	return &DatasetRecord{
		Reference:     raw.Ref,
		Title:         raw.Title,
		Description:   truncateRunes(raw.Description, MaxDescriptionChars),
		SizeBytes:     raw.TotalBytes,
		LastUpdated:   raw.LastUpdated,
		Downloads:     raw.DownloadCount,
		Votes:         raw.VoteCount,
		Usability:     raw.UsabilityRating,
		Tags:          NormalizeTags(raw.Tags),
		FileTypes:     fileTypes,
		EstimatedRows: EstimateRowCount(raw.TotalBytes, fileTypes),
	}, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// ExtractFileTypes collects the distinct lowercase extensions of the
// dataset's files. Returns ["unknown"] when nothing can be determined.
func ExtractFileTypes(files []DatasetFile) []string {
	var types []string
	seen := make(map[string]bool)
	for _, f := range files {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		types = append(types, ext)
	}
	if len(types) == 0 {
		return []string{"unknown"}
	}
	return types
}

// bytesPerRow holds rough per-row byte costs used for row estimation.
var bytesPerRow = map[string]int64{
	"csv":     100,
	"json":    200,
	"parquet": 50,
	"xlsx":    150,
	"tsv":     100,
}

// EstimateRowCount derives a non-authoritative row count from the dataset
// size and its primary file type. Unknown extensions fall back to the csv
// constant; entirely undetermined file types yield 0.
func EstimateRowCount(sizeBytes int64, fileTypes []string) int64 {
	if len(fileTypes) == 0 || sizeBytes <= 0 {
		return 0
	}
	for _, ft := range fileTypes {
		if ft == "unknown" {
			return 0
		}
	}
	perRow, ok := bytesPerRow[fileTypes[0]]
	if !ok {
		perRow = bytesPerRow["csv"]
	}
	return sizeBytes / perRow
}

// IntentKind identifies a search dimension
type IntentKind string

const (
	KindKeyword  IntentKind = "keyword"
	KindTag      IntentKind = "tag"
	KindFileType IntentKind = "fileType"
	KindColumn   IntentKind = "column"
)

// Valid reports whether the kind is one of the four search dimensions.
func (k IntentKind) Valid() bool {
	switch k {
	case KindKeyword, KindTag, KindFileType, KindColumn:
		return true
	}
	return false
}

// SearchIntent is one caller-supplied search dimension: a kind, its term
// strings, and a per-intent result cap.
type SearchIntent struct {
	Kind       IntentKind `json:"kind"`
	Terms      []string   `json:"terms"`
	MaxResults int        `json:"max_results"`
}

// Validate checks the intent is usable.
func (i SearchIntent) Validate() error {
	if !i.Kind.Valid() {
		return fmt.Errorf("unknown intent kind %q: %w", i.Kind, ErrInvalidInput)
	}
	if len(i.Terms) == 0 {
		return fmt.Errorf("intent %s has no terms: %w", i.Kind, ErrInvalidInput)
	}
	return nil
}

// SortKey selects the ranking order for deduplicated results
type SortKey string

const (
	SortByScore SortKey = "score"
	SortByVotes SortKey = "votes"
	SortBySize  SortKey = "size"
)

// SortKeyForKind maps a search dimension to its ranking order: tag
// searches rank by votes, file-type searches by size, everything else
// (keyword, column, combined) by relevance score.
func SortKeyForKind(kind IntentKind) SortKey {
	switch kind {
	case KindTag:
		return SortByVotes
	case KindFileType:
		return SortBySize
	default:
		return SortByScore
	}
}

// SearchRequest is the combined multi-dimension search input.
type SearchRequest struct {
	Keywords   []string `json:"keywords,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	FileTypes  []string `json:"file_types,omitempty"`
	Columns    []string `json:"columns,omitempty"`
	MaxResults int      `json:"max_results"`
}

// Validate rejects a request with no search dimension at all. This is the
// only error that is fatal to a search call.
func (r SearchRequest) Validate() error {
	if len(r.Keywords) == 0 && len(r.Tags) == 0 && len(r.FileTypes) == 0 && len(r.Columns) == 0 {
		return fmt.Errorf("at least one of keywords, tags, file types or columns is required: %w", ErrInvalidInput)
	}
	return nil
}

// Normalize applies the default result cap.
func (r *SearchRequest) Normalize() {
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
}

// Dimensions returns how many search dimensions the request carries.
func (r SearchRequest) Dimensions() int {
	n := 0
	if len(r.Keywords) > 0 {
		n++
	}
	if len(r.Tags) > 0 {
		n++
	}
	if len(r.FileTypes) > 0 {
		n++
	}
	if len(r.Columns) > 0 {
		n++
	}
	return n
}

// SearchResult is the outcome of one aggregation run.
type SearchResult struct {
	Records []*DatasetRecord `json:"records"`

	// TotalFound counts records seen before deduplication and capping.
	TotalFound int `json:"total_found"`

	// QueriesRun counts the expanded catalog queries the aggregation
	// resolved, whether from cache or from the remote.
	QueriesRun int `json:"queries_run"`

	// ExhaustedQueries lists queries abandoned after retry exhaustion.
	// Partial results from other queries are still included.
	ExhaustedQueries []string `json:"exhausted_queries,omitempty"`
}
