package domain

import "strings"

// TableSchema is the column listing of one caller-supplied tabular file.
type TableSchema struct {
	// Name identifies the source file (path or label)
	Name string `json:"name"`

	Columns []string `json:"columns"`
}

// identifierMarkers flag identifier-like columns: user_id, INDEX,
// pk_value and GUID are all identifiers, while identity_theft_rate is a
// data attribute even though "identity" happens to start with "id".
var identifierMarkers = []string{"id", "index", "key", "pk", "uuid", "guid"}

// IsIdentifierColumn reports whether a column name looks like a row
// identifier rather than a data attribute. A name is an identifier when
// any underscore/dash/space-separated token equals a marker, or the name
// ends in one (catches camelCase forms like userId).
func IsIdentifierColumn(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return false
	}
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for _, marker := range identifierMarkers {
		if strings.HasSuffix(lowered, marker) {
			return true
		}
		for _, tok := range tokens {
			if tok == marker {
				return true
			}
		}
	}
	return false
}

// SearchableColumns filters the schema down to columns worth deriving
// search intents from, dropping empty and identifier-like names.
func (s TableSchema) SearchableColumns() []string {
	var out []string
	for _, col := range s.Columns {
		if strings.TrimSpace(col) == "" || IsIdentifierColumn(col) {
			continue
		}
		out = append(out, col)
	}
	return out
}
