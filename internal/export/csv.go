// Package export renders dataset metadata snapshots in flat tabular
// form for spreadsheets and downstream indexing.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
)

// DefaultFilename is used when ExportFile gets an empty path.
const DefaultFilename = "dataset_metadata_index.csv"

var header = []string{
	"ref", "title", "description", "size_bytes", "size_mb", "last_updated",
	"download_count", "vote_count", "usability_rating", "tags",
	"search_score", "search_method", "file_types", "estimated_rows",
}

// Ensure CSVExporter implements MetadataExporter
var _ driving.MetadataExporter = (*CSVExporter)(nil)

// CSVExporter writes dataset metadata as CSV. Stateless and safe for
// concurrent use.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// WriteCSV writes the records as CSV to w.
func (e *CSVExporter) WriteCSV(w io.Writer, records []*domain.DatasetRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.Reference, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile writes the records as CSV to path, creating parent
// directories as needed. An empty path selects the default filename in
// the working directory. Returns the path written.
func (e *CSVExporter) ExportFile(path string, records []*domain.DatasetRecord) (string, error) {
	if path == "" {
		path = DefaultFilename
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := e.WriteCSV(f, records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func row(r *domain.DatasetRecord) []string {
	sizeMB := float64(r.SizeBytes) / (1024 * 1024)
	return []string{
		r.Reference,
		r.Title,
		r.Description,
		strconv.FormatInt(r.SizeBytes, 10),
		strconv.FormatFloat(sizeMB, 'f', 2, 64),
		r.LastUpdated,
		strconv.Itoa(r.Downloads),
		strconv.Itoa(r.Votes),
		strconv.FormatFloat(r.Usability, 'f', -1, 64),
		strings.Join(r.Tags, ", "),
		strconv.FormatFloat(r.SearchScore, 'f', -1, 64),
		r.SearchMethod,
		strings.Join(r.FileTypes, ", "),
		strconv.FormatInt(r.EstimatedRows, 10),
	}
}
