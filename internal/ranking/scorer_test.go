package ranking

import (
	"math"
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_AllComponents(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference:   "acme/finance-data",
		Title:       "Finance Data 2024",
		Description: "historical finance records with credit details",
		Tags:        []string{"finance", "credit"},
		Usability:   8.5,
		Votes:       250,
		Downloads:   5000,
	}

	// 10 (title) + 5 (description) + 8 (tag) + 17 (usability) +
	// 2.5 (votes) + 3.0 (downloads capped)
	got := Score(record, "finance")
	if !almostEqual(got, 45.5) {
		t.Errorf("expected score 45.5, got %v", got)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference: "acme/loans",
		Title:     "Loan Defaults",
	}

	if got := Score(record, "LOAN"); !almostEqual(got, 10.0) {
		t.Errorf("expected case-insensitive title match worth 10, got %v", got)
	}
}

func TestScore_PopularityCaps(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference: "acme/huge",
		Votes:     100000,
		Downloads: 9000000,
	}

	// 5.0 vote cap + 3.0 download cap, no textual match
	if got := Score(record, "nomatch"); !almostEqual(got, 8.0) {
		t.Errorf("expected capped popularity score 8.0, got %v", got)
	}
}

func TestScore_TagMatchIsFlat(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference: "acme/tagged",
		Tags:      []string{"finance", "financial", "refinance"},
	}

	// Three tags contain the term but the tag component counts once
	if got := Score(record, "finance"); !almostEqual(got, 8.0) {
		t.Errorf("expected flat tag score 8.0, got %v", got)
	}
}

func TestScore_NoMatch(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference: "acme/empty",
		Title:     "Weather Stations",
	}

	if got := Score(record, "finance"); !almostEqual(got, 0.0) {
		t.Errorf("expected zero score, got %v", got)
	}
}

func TestScore_MoreVotesNeverScoreLess(t *testing.T) {
	base := &domain.DatasetRecord{
		Reference: "acme/a",
		Title:     "Finance",
		Votes:     0,
	}

	prev := Score(base, "finance")
	for _, votes := range []int{10, 100, 499, 500, 100000} {
		record := &domain.DatasetRecord{
			Reference: "acme/a",
			Title:     "Finance",
			Votes:     votes,
		}
		got := Score(record, "finance")
		if got < prev {
			t.Errorf("score decreased from %v to %v at %d votes", prev, got, votes)
		}
		prev = got
	}
}

func TestBoost(t *testing.T) {
	record := &domain.DatasetRecord{
		Reference:   "acme/cc",
		Title:       "Credit Card Fraud Detection",
		Description: "transactions with amount and balance columns",
		Tags:        []string{"finance", "fraud"},
	}

	tests := []struct {
		name     string
		keywords []string
		tags     []string
		columns  []string
		expected float64
	}{
		{"no terms", nil, nil, nil, 0},
		{"keyword in title", []string{"fraud"}, nil, nil, 2.0},
		{"two keywords in title", []string{"credit", "fraud"}, nil, nil, 4.0},
		{"keyword not in title", []string{"weather"}, nil, nil, 0},
		{"tag membership", nil, []string{"finance"}, nil, 3.0},
		{"tag is exact membership not substring", nil, []string{"fin"}, nil, 0},
		{"column in description", nil, nil, []string{"amount"}, 1.5},
		{"two columns in description", nil, nil, []string{"amount", "balance"}, 3.0},
		{"all dimensions", []string{"fraud"}, []string{"finance"}, []string{"amount"}, 6.5},
		{"empty strings ignored", []string{""}, nil, []string{""}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boost(record, tt.keywords, tt.tags, tt.columns)
			if !almostEqual(got, tt.expected) {
				t.Errorf("Boost() = %v, want %v", got, tt.expected)
			}
		})
	}
}
