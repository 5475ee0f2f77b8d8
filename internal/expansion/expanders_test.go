package expansion

import (
	"reflect"
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

func TestKeywordExpander_Variations(t *testing.T) {
	e := &KeywordExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindKeyword,
		Terms:      []string{"finance"},
		MaxResults: 80,
	}

	queries := e.Expand(intent)
	if len(queries) != 8 {
		t.Fatalf("expected 8 variations, got %d", len(queries))
	}

	expected := []string{
		"finance",
		"finance data",
		"finance dataset",
		"finance analytics",
		"finance analysis",
		"finance machine learning",
		"finance csv",
		"finance json",
	}
	for i, exp := range expected {
		q := queries[i]
		if q.Query.Text != exp {
			t.Errorf("query %d: expected text %q, got %q", i, exp, q.Query.Text)
		}
		if q.ScoreTerm != exp {
			t.Errorf("query %d: expected score term %q, got %q", i, exp, q.ScoreTerm)
		}
		if q.Method != "keyword:"+exp {
			t.Errorf("query %d: expected method %q, got %q", i, "keyword:"+exp, q.Method)
		}
		if q.MaxResults != 80 {
			t.Errorf("query %d: expected cap 80, got %d", i, q.MaxResults)
		}
		if q.RequireTag != "" {
			t.Errorf("query %d: keyword queries must not require a tag", i)
		}
	}
}

func TestKeywordExpander_CapSplitsAcrossTerms(t *testing.T) {
	e := &KeywordExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindKeyword,
		Terms:      []string{"finance", "health"},
		MaxResults: 100,
	}

	queries := e.Expand(intent)
	if len(queries) != 16 {
		t.Fatalf("expected 16 queries for 2 terms, got %d", len(queries))
	}
	for i, q := range queries {
		if q.MaxResults != 50 {
			t.Errorf("query %d: expected per-term cap 50, got %d", i, q.MaxResults)
		}
	}
}

func TestKeywordExpander_CapFloor(t *testing.T) {
	e := &KeywordExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindKeyword,
		Terms:      []string{"a", "b", "c"},
		MaxResults: 2,
	}

	for i, q := range e.Expand(intent) {
		if q.MaxResults != 1 {
			t.Errorf("query %d: expected cap floor 1, got %d", i, q.MaxResults)
		}
	}
}

func TestTagExpander_Taxonomy(t *testing.T) {
	e := &TagExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindTag,
		Terms:      []string{"finance"},
		MaxResults: 50,
	}

	queries := e.Expand(intent)
	if len(queries) != 10 {
		t.Fatalf("expected 10 expanded tags for finance, got %d", len(queries))
	}

	first := queries[0]
	if first.Query.Tag != "business" {
		t.Errorf("expected first expanded tag business, got %q", first.Query.Tag)
	}
	if first.Query.Text != "" {
		t.Errorf("tag queries must not carry free text, got %q", first.Query.Text)
	}
	if first.Method != "tag:business" {
		t.Errorf("expected method tag:business, got %q", first.Method)
	}
	if first.RequireTag != "business" {
		t.Errorf("expected required tag business, got %q", first.RequireTag)
	}
	if first.ScoreTerm != "business" {
		t.Errorf("expected score term business, got %q", first.ScoreTerm)
	}

	// Cap divides by base terms, not by expanded tags
	for i, q := range queries {
		if q.MaxResults != 50 {
			t.Errorf("query %d: expected cap 50, got %d", i, q.MaxResults)
		}
	}
}

func TestTagExpander_UnknownTag(t *testing.T) {
	e := &TagExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindTag,
		Terms:      []string{"astronomy"},
		MaxResults: 20,
	}

	queries := e.Expand(intent)
	if len(queries) != 1 {
		t.Fatalf("expected single query for tag outside taxonomy, got %d", len(queries))
	}
	if queries[0].Query.Tag != "astronomy" {
		t.Errorf("expected tag astronomy, got %q", queries[0].Query.Tag)
	}
	if queries[0].RequireTag != "astronomy" {
		t.Errorf("expected required tag astronomy, got %q", queries[0].RequireTag)
	}
}

func TestFileTypeExpander(t *testing.T) {
	e := &FileTypeExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindFileType,
		Terms:      []string{"csv", "json"},
		MaxResults: 30,
	}

	queries := e.Expand(intent)
	if len(queries) != 2 {
		t.Fatalf("expected one query per file type, got %d", len(queries))
	}

	for i, ft := range []string{"csv", "json"} {
		q := queries[i]
		if q.Query.FileType != ft {
			t.Errorf("query %d: expected file type %q, got %q", i, ft, q.Query.FileType)
		}
		if q.Query.Text != "" {
			t.Errorf("query %d: file type queries must not carry free text", i)
		}
		if q.Method != "file_type:"+ft {
			t.Errorf("query %d: expected method %q, got %q", i, "file_type:"+ft, q.Method)
		}
		if q.MaxResults != 15 {
			t.Errorf("query %d: expected cap 15, got %d", i, q.MaxResults)
		}
	}
}

func TestColumnExpander_Variants(t *testing.T) {
	e := &ColumnExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindColumn,
		Terms:      []string{"amount"},
		MaxResults: 60,
	}

	queries := e.Expand(intent)
	if len(queries) != 6 {
		t.Fatalf("expected 6 variants, got %d", len(queries))
	}

	expected := []string{
		"amount",
		"column amount",
		"field amount",
		"feature amount",
		"variable amount",
		"amount data",
	}
	for i, exp := range expected {
		q := queries[i]
		if q.Query.Text != exp {
			t.Errorf("variant %d: expected text %q, got %q", i, exp, q.Query.Text)
		}
		// Scoring and provenance stay on the base column name
		if q.ScoreTerm != "amount" {
			t.Errorf("variant %d: expected score term amount, got %q", i, q.ScoreTerm)
		}
		if q.Method != "column:amount" {
			t.Errorf("variant %d: expected method column:amount, got %q", i, q.Method)
		}
		if q.MaxResults != 10 {
			t.Errorf("variant %d: expected cap 60/6=10, got %d", i, q.MaxResults)
		}
	}
}

func TestColumnExpander_CapSplitsAcrossColumnsAndVariants(t *testing.T) {
	e := &ColumnExpander{}
	intent := domain.SearchIntent{
		Kind:       domain.KindColumn,
		Terms:      []string{"amount", "price"},
		MaxResults: 100,
	}

	queries := e.Expand(intent)
	if len(queries) != 12 {
		t.Fatalf("expected 12 queries for 2 columns, got %d", len(queries))
	}
	// 100 / (2 columns * 6 variants) = 8
	for i, q := range queries {
		if q.MaxResults != 8 {
			t.Errorf("query %d: expected cap 8, got %d", i, q.MaxResults)
		}
	}
}

func TestExpandTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected []string
	}{
		{"finance", "finance", []string{"business", "economics", "banking", "investment", "financial", "money", "credit", "loan", "market", "trading"}},
		{"healthcare", "healthcare", []string{"health", "medical", "medicine", "patient", "clinical", "hospital", "diagnosis", "treatment"}},
		{"case insensitive", "Finance", []string{"business", "economics", "banking", "investment", "financial", "money", "credit", "loan", "market", "trading"}},
		{"whitespace trimmed", "  education  ", []string{"student", "learning", "academic", "school", "university", "course", "training"}},
		{"outside taxonomy", "weather", []string{"weather"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandTag(tt.tag)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ExpandTag(%q) = %v, want %v", tt.tag, result, tt.expected)
			}
		})
	}
}

func TestDomainColumnKeywords(t *testing.T) {
	finance := DomainColumnKeywords("finance")
	if len(finance) != 10 {
		t.Errorf("expected 10 finance column keywords, got %d", len(finance))
	}
	if finance[0] != "amount" {
		t.Errorf("expected first finance keyword amount, got %q", finance[0])
	}

	generic := DomainColumnKeywords("geology")
	expected := []string{"id", "name", "date", "value", "type", "category"}
	if !reflect.DeepEqual(generic, expected) {
		t.Errorf("expected generic fallback %v, got %v", expected, generic)
	}

	upper := DomainColumnKeywords("HEALTHCARE")
	if len(upper) != 9 || upper[0] != "patient" {
		t.Errorf("expected case-insensitive healthcare lookup, got %v", upper)
	}
}
