package domain

import (
	"encoding/json"
	"strings"
)

// CatalogQuery is one concrete query against the remote dataset catalog.
// Exactly one of Text or Tag carries the search term; FileType narrows
// results to datasets containing that file type.
type CatalogQuery struct {
	Text     string `json:"text,omitempty"`
	Tag      string `json:"tag,omitempty"`
	FileType string `json:"file_type,omitempty"`
	Page     int    `json:"page"`
}

// Key returns the exact cache key for this query. Page is excluded: the
// cache stores whole accumulated result sets per logical query.
func (q CatalogQuery) Key() string {
	var b strings.Builder
	if q.Tag != "" {
		b.WriteString("tag:")
		b.WriteString(q.Tag)
	} else {
		b.WriteString(q.Text)
	}
	if q.FileType != "" {
		b.WriteString("|filetype:")
		b.WriteString(q.FileType)
	}
	return b.String()
}

// CatalogPage is one page of raw results from the remote catalog.
type CatalogPage struct {
	Records []RawDataset `json:"records"`
	HasMore bool         `json:"has_more"`
}

// RawDataset is the unvalidated wire form of a dataset record as returned
// by the catalog. Normalization into a DatasetRecord happens exactly once,
// at ingestion (NewDatasetRecord).
type RawDataset struct {
	Ref             string        `json:"ref"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	TotalBytes      int64         `json:"totalBytes"`
	LastUpdated     string        `json:"lastUpdated"`
	DownloadCount   int           `json:"downloadCount"`
	VoteCount       int           `json:"voteCount"`
	UsabilityRating float64       `json:"usabilityRating"`
	Tags            []Tag         `json:"tags"`
	Files           []DatasetFile `json:"files,omitempty"`
}

// DatasetFile is one file inside a dataset, as listed by the catalog.
type DatasetFile struct {
	Name       string `json:"name"`
	TotalBytes int64  `json:"totalBytes"`
}

// Tag is a tagged union: the remote sends either a plain string or an
// object carrying a name field, depending on endpoint and API version.
type Tag struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both wire forms.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Name = obj.Name
	return nil
}

// MarshalJSON always emits the object form.
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name string `json:"name"`
	}{Name: t.Name})
}

// NormalizeTags produces the lowercase tag set for a record: trimmed,
// lowercased, empty and duplicate entries dropped, first occurrence order
// preserved.
func NormalizeTags(tags []Tag) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
