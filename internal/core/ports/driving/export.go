package driving

import (
	"io"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// MetadataExporter produces the flat tabular export of a record list.
// Pure formatting, no business logic.
type MetadataExporter interface {
	// WriteCSV writes the records as CSV to w.
	WriteCSV(w io.Writer, records []*domain.DatasetRecord) error

	// ExportFile writes the records as CSV to path and returns the path
	// actually written. An empty path selects the default filename.
	ExportFile(path string, records []*domain.DatasetRecord) (string, error)
}
