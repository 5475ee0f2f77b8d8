package domain

import "testing"

func TestIsIdentifierColumn(t *testing.T) {
	tests := []struct {
		column string
		want   bool
	}{
		{"user_id", true},
		{"INDEX", true},
		{"pk_value", true},
		{"GUID", true},
		{"uuid", true},
		{"userId", true},
		{"row-key", true},
		{"amount", false},
		{"category", false},
		{"identity_theft_rate", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := IsIdentifierColumn(tt.column); got != tt.want {
				t.Errorf("IsIdentifierColumn(%q) = %v, want %v", tt.column, got, tt.want)
			}
		})
	}
}

func TestSearchableColumns(t *testing.T) {
	schema := TableSchema{
		Name:    "transactions.csv",
		Columns: []string{"user_id", "amount", "category", "GUID", "", "identity_theft_rate"},
	}

	got := schema.SearchableColumns()
	want := []string{"amount", "category", "identity_theft_rate"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}
