package ranking

import (
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

func rec(ref string, score float64) *domain.DatasetRecord {
	return &domain.DatasetRecord{Reference: ref, SearchScore: score}
}

func refs(records []*domain.DatasetRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Reference
	}
	return out
}

func assertRefs(t *testing.T, got []*domain.DatasetRecord, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d records %v, got %d %v", len(want), want, len(got), refs(got))
	}
	for i, ref := range want {
		if got[i].Reference != ref {
			t.Errorf("index %d: expected %s, got %s", i, ref, got[i].Reference)
		}
	}
}

func TestDeduper_FirstOccurrenceWins(t *testing.T) {
	d := NewDeduper()

	first := rec("acme/a", 1.0)
	duplicate := rec("acme/a", 99.0)

	result := d.Process([]*domain.DatasetRecord{first, rec("acme/b", 2.0), duplicate})

	assertRefs(t, result, []string{"acme/a", "acme/b"})
	if result[0].SearchScore != 1.0 {
		t.Errorf("expected first occurrence score 1.0 to survive, got %v", result[0].SearchScore)
	}
}

func TestDeduper_Idempotent(t *testing.T) {
	d := NewDeduper()

	input := []*domain.DatasetRecord{
		rec("acme/a", 1), rec("acme/b", 2), rec("acme/a", 3), rec("acme/c", 4),
	}

	once := d.Process(input)
	twice := d.Process(once)

	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d records", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("index %d changed on second pass", i)
		}
	}
}

func TestDeduper_SkipsNil(t *testing.T) {
	d := NewDeduper()

	result := d.Process([]*domain.DatasetRecord{rec("acme/a", 1), nil, rec("acme/b", 2)})
	assertRefs(t, result, []string{"acme/a", "acme/b"})
}

func TestSorter_ByScore(t *testing.T) {
	s := NewSorter(domain.SortByScore)

	result := s.Process([]*domain.DatasetRecord{
		rec("acme/low", 1.0),
		rec("acme/high", 9.0),
		rec("acme/mid", 5.0),
	})

	assertRefs(t, result, []string{"acme/high", "acme/mid", "acme/low"})
}

func TestSorter_TiesBrokenByReference(t *testing.T) {
	s := NewSorter(domain.SortByScore)

	result := s.Process([]*domain.DatasetRecord{
		rec("acme/zeta", 5.0),
		rec("acme/alpha", 5.0),
		rec("acme/mike", 5.0),
	})

	assertRefs(t, result, []string{"acme/alpha", "acme/mike", "acme/zeta"})
}

func TestSorter_ByVotes(t *testing.T) {
	s := NewSorter(domain.SortByVotes)

	a := &domain.DatasetRecord{Reference: "acme/a", Votes: 10, SearchScore: 99}
	b := &domain.DatasetRecord{Reference: "acme/b", Votes: 500, SearchScore: 1}

	result := s.Process([]*domain.DatasetRecord{a, b})
	assertRefs(t, result, []string{"acme/b", "acme/a"})
}

func TestSorter_BySize(t *testing.T) {
	s := NewSorter(domain.SortBySize)

	a := &domain.DatasetRecord{Reference: "acme/a", SizeBytes: 100}
	b := &domain.DatasetRecord{Reference: "acme/b", SizeBytes: 100000}

	result := s.Process([]*domain.DatasetRecord{a, b})
	assertRefs(t, result, []string{"acme/b", "acme/a"})
}

func TestTruncator(t *testing.T) {
	input := []*domain.DatasetRecord{rec("acme/a", 3), rec("acme/b", 2), rec("acme/c", 1)}

	if got := NewTruncator(2).Process(input); len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
	if got := NewTruncator(0).Process(input); len(got) != 3 {
		t.Errorf("expected truncation disabled for max 0, got %d records", len(got))
	}
	if got := NewTruncator(10).Process(input); len(got) != 3 {
		t.Errorf("expected all records under the cap, got %d", len(got))
	}
}

func TestPipeline_StagesSortedByOrder(t *testing.T) {
	p := NewPipeline()

	// Added out of order on purpose
	p.Add(NewTruncator(2))
	p.Add(NewSorter(domain.SortByScore))
	p.Add(NewDeduper())

	// A late high-scoring record must displace an earlier low-scoring
	// one: truncation runs after sorting.
	result := p.Process([]*domain.DatasetRecord{
		rec("acme/low", 1.0),
		rec("acme/mid", 5.0),
		rec("acme/late-high", 9.0),
	})

	assertRefs(t, result, []string{"acme/late-high", "acme/mid"})
}

func TestPipeline_DedupBeforeSort(t *testing.T) {
	p := DefaultPipeline(domain.SortByScore, 10)

	// The duplicate arrives later with a higher score; dedup on raw
	// discovery order keeps the first, so the high-score copy is gone.
	result := p.Process([]*domain.DatasetRecord{
		rec("acme/a", 1.0),
		rec("acme/b", 5.0),
		rec("acme/a", 50.0),
	})

	assertRefs(t, result, []string{"acme/b", "acme/a"})
	if result[1].SearchScore != 1.0 {
		t.Errorf("expected first-occurrence score 1.0, got %v", result[1].SearchScore)
	}
}

func TestBoostedSorter_BoostAffectsOrderNotScore(t *testing.T) {
	low := rec("acme/low", 2.0)
	high := rec("acme/high", 5.0)

	// Boost lifts the low-scoring record past the high one
	boost := func(r *domain.DatasetRecord) float64 {
		if r.Reference == "acme/low" {
			return 10.0
		}
		return 0
	}

	result := NewBoostedSorter(boost).Process([]*domain.DatasetRecord{high, low})

	assertRefs(t, result, []string{"acme/low", "acme/high"})
	if result[0].SearchScore != 2.0 {
		t.Errorf("boost must not mutate the stored score, got %v", result[0].SearchScore)
	}
}

func TestBoostedPipeline(t *testing.T) {
	boost := func(r *domain.DatasetRecord) float64 { return 0 }
	p := BoostedPipeline(boost, 2)

	result := p.Process([]*domain.DatasetRecord{
		rec("acme/a", 1.0),
		rec("acme/b", 9.0),
		rec("acme/a", 50.0),
		rec("acme/c", 5.0),
	})

	assertRefs(t, result, []string{"acme/b", "acme/c"})
}

func TestPipeline_List(t *testing.T) {
	p := DefaultPipeline(domain.SortByVotes, 5)

	names := p.List()
	if len(names) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(names))
	}

	expected := []string{"deduper", "sorter:votes", "truncator"}
	for i, exp := range expected {
		if names[i] != exp {
			t.Errorf("stage %d: expected %s, got %s", i, exp, names[i])
		}
	}
}
