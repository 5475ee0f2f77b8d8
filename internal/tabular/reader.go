// Package tabular reads header rows of caller-supplied CSV/TSV files so
// searches can be derived from a user's own table schemas.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// ReadSchema reads the header row of the file at path.
func ReadSchema(path string) (domain.TableSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.TableSchema{}, fmt.Errorf("open schema file: %v: %w", err, domain.ErrFileRead)
	}
	defer f.Close()

	return ReadSchemaFrom(f, path)
}

// ReadSchemaFrom reads the header row from r. The name picks the
// delimiter by extension (tab for .tsv and .tab, comma otherwise) and
// becomes the schema's Name.
func ReadSchemaFrom(r io.Reader, name string) (domain.TableSchema, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiterFor(name)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.TableSchema{}, fmt.Errorf("%s is empty: %w", name, domain.ErrFileRead)
	}
	if err != nil {
		return domain.TableSchema{}, fmt.Errorf("read header of %s: %v: %w", name, err, domain.ErrFileRead)
	}

	columns := make([]string, 0, len(header))
	for i, col := range header {
		if i == 0 {
			// Spreadsheet exports often lead with a UTF-8 BOM.
			col = strings.TrimPrefix(col, "\uFEFF")
		}
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return domain.TableSchema{}, fmt.Errorf("%s has no usable header columns: %w", name, domain.ErrFileRead)
	}

	return domain.TableSchema{Name: name, Columns: columns}, nil
}

func delimiterFor(name string) rune {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv", ".tab":
		return '\t'
	}
	return ','
}
