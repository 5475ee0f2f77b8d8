package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driven/mocks"
)

func TestComprehensiveCollection_QueryFanout(t *testing.T) {
	catalog := stubCatalog(map[string]domain.CatalogPage{
		"finance": {HasMore: true, Records: []domain.RawDataset{
			{Ref: "acme/alpha", Title: "Finance Hub"},
		}},
	})
	svc, _ := createTestSearchService(t, catalog)

	result, err := svc.ComprehensiveCollection(context.Background(), "finance", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// finance sweeps 8 keyword variations, 10 taxonomy tags, 3 file
	// types and 10 column keywords at 6 variants each.
	if result.QueriesRun != 81 {
		t.Errorf("expected 81 queries, got %d", result.QueriesRun)
	}

	// Collection sweeps never fetch per-dataset file listings.
	if calls := catalog.ListFilesCalls(); len(calls) != 0 {
		t.Errorf("expected no file listing calls, got %d", len(calls))
	}
}

func TestComprehensiveCollection_DedupRankCap(t *testing.T) {
	catalog := stubCatalog(map[string]domain.CatalogPage{
		"finance": {HasMore: true, Records: []domain.RawDataset{
			{Ref: "acme/alpha", Title: "Finance Hub", Tags: []domain.Tag{{Name: "business"}}},
			{Ref: "acme/beta", Title: "Bank Ledger", VoteCount: 200},
		}},
		"tag:business": {HasMore: true, Records: []domain.RawDataset{
			{Ref: "acme/alpha", Title: "Finance Hub", Tags: []domain.Tag{{Name: "business"}}},
		}},
		// Served to every file-type query.
		"": {HasMore: true, Records: []domain.RawDataset{
			{Ref: "acme/bulk", Title: "Bulk Dump", VoteCount: 400},
		}},
	})
	svc, _ := createTestSearchService(t, catalog)

	result, err := svc.ComprehensiveCollection(context.Background(), "finance", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// alpha appears via keyword and tag queries, bulk via all three file
	// types; after dedup the distinct set is alpha(10), bulk(4), beta(2),
	// capped at 2.
	if result.TotalFound != 6 {
		t.Errorf("expected 6 records before dedup, got %d", result.TotalFound)
	}
	got := resultRefs(result)
	if len(got) != 2 || got[0] != "acme/alpha" || got[1] != "acme/bulk" {
		t.Fatalf("expected [acme/alpha acme/bulk], got %v", got)
	}
	if result.Records[1].SearchMethod != "file_type:csv" {
		t.Errorf("expected bulk's first occurrence from the csv sweep, got %q", result.Records[1].SearchMethod)
	}
}

func TestComprehensiveCollection_UnknownDomainUsesGenericColumns(t *testing.T) {
	catalog := stubCatalog(nil)
	svc, _ := createTestSearchService(t, catalog)

	result, err := svc.ComprehensiveCollection(context.Background(), "geology", 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Outside the taxonomy: 8 keyword variations, the tag itself, 3 file
	// types, 6 generic column keywords at 6 variants each.
	if result.QueriesRun != 48 {
		t.Errorf("expected 48 queries, got %d", result.QueriesRun)
	}
}

func TestComprehensiveCollection_NormalizesDomain(t *testing.T) {
	catalog := stubCatalog(nil)
	svc, _ := createTestSearchService(t, catalog)

	result, err := svc.ComprehensiveCollection(context.Background(), "  Finance  ", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.QueriesRun != 81 {
		t.Errorf("expected taxonomy fanout for normalized domain, got %d queries", result.QueriesRun)
	}
}

func TestComprehensiveCollection_EmptyDomain(t *testing.T) {
	svc, _ := createTestSearchService(t, mocks.NewMockCatalog())

	_, err := svc.ComprehensiveCollection(context.Background(), "   ", 10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
