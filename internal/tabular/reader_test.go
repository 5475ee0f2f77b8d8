package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadSchema_CSV(t *testing.T) {
	path := writeTempFile(t, "transactions.csv", "amount,price,customer_id\n1.5,2.0,42\n")

	schema, err := ReadSchema(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"amount", "price", "customer_id"}
	if len(schema.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %d: %v", len(want), len(schema.Columns), schema.Columns)
	}
	for i, col := range want {
		if schema.Columns[i] != col {
			t.Errorf("column %d: expected %q, got %q", i, col, schema.Columns[i])
		}
	}
	if schema.Name != path {
		t.Errorf("expected schema name %q, got %q", path, schema.Name)
	}
}

func TestReadSchema_TSVUsesTabDelimiter(t *testing.T) {
	path := writeTempFile(t, "patients.tsv", "patient\tdiagnosis\tage\n")

	schema, err := ReadSchema(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(schema.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %v", schema.Columns)
	}
	if schema.Columns[1] != "diagnosis" {
		t.Errorf("expected second column diagnosis, got %q", schema.Columns[1])
	}
}

func TestReadSchema_MissingFile(t *testing.T) {
	_, err := ReadSchema(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, domain.ErrFileRead) {
		t.Errorf("expected ErrFileRead, got %v", err)
	}
}

func TestReadSchema_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "")

	_, err := ReadSchema(path)
	if !errors.Is(err, domain.ErrFileRead) {
		t.Errorf("expected ErrFileRead for empty file, got %v", err)
	}
}

func TestReadSchemaFrom_TrimsAndDropsBlankColumns(t *testing.T) {
	schema, err := ReadSchemaFrom(strings.NewReader(" amount , ,price\n"), "spaced.csv")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(schema.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", schema.Columns)
	}
	if schema.Columns[0] != "amount" || schema.Columns[1] != "price" {
		t.Errorf("unexpected columns %v", schema.Columns)
	}
}

func TestReadSchemaFrom_StripsByteOrderMark(t *testing.T) {
	schema, err := ReadSchemaFrom(strings.NewReader("\uFEFFamount,price\n"), "bom.csv")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if schema.Columns[0] != "amount" {
		t.Errorf("expected BOM stripped from first column, got %q", schema.Columns[0])
	}
}

func TestReadSchemaFrom_AllBlankHeader(t *testing.T) {
	_, err := ReadSchemaFrom(strings.NewReader(" , ,\n"), "blank.csv")
	if !errors.Is(err, domain.ErrFileRead) {
		t.Errorf("expected ErrFileRead for blank header, got %v", err)
	}
}
