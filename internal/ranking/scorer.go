package ranking

import (
	"strings"

	"github.com/sievelabs/sieve-core/internal/core/domain"
)

// Relevance weights. Usability contributes up to 20 (rating is 0-10);
// votes and downloads are capped so a single viral dataset cannot
// dominate textual relevance.
const (
	titleMatchScore       = 10.0
	descriptionMatchScore = 5.0
	tagMatchScore         = 8.0
	usabilityWeight       = 2.0
	voteDivisor           = 100.0
	voteScoreCap          = 5.0
	downloadDivisor       = 1000.0
	downloadScoreCap      = 3.0

	keywordBoost = 2.0
	tagBoost     = 3.0
	columnBoost  = 1.5
)

// Score computes the relevance of a record against one search term.
// Matching is case-insensitive substring matching; popularity terms are
// added regardless of the textual match.
func Score(record *domain.DatasetRecord, term string) float64 {
	var score float64

	needle := strings.ToLower(term)

	if strings.Contains(strings.ToLower(record.Title), needle) {
		score += titleMatchScore
	}
	if strings.Contains(strings.ToLower(record.Description), needle) {
		score += descriptionMatchScore
	}
	for _, tag := range record.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			score += tagMatchScore
			break
		}
	}

	score += record.Usability * usabilityWeight

	voteScore := float64(record.Votes) / voteDivisor
	if voteScore > voteScoreCap {
		voteScore = voteScoreCap
	}
	score += voteScore

	downloadScore := float64(record.Downloads) / downloadDivisor
	if downloadScore > downloadScoreCap {
		downloadScore = downloadScoreCap
	}
	score += downloadScore

	return score
}

// Boost computes the multi-criteria bonus applied when several search
// dimensions are combined in one call: keywords found in the title, tags
// present in the record's tag set, and column names found in the
// description, summed across every supplied term.
func Boost(record *domain.DatasetRecord, keywords, tags, columns []string) float64 {
	var boost float64

	title := strings.ToLower(record.Title)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(keyword)) {
			boost += keywordBoost
		}
	}

	for _, tag := range tags {
		if record.HasTag(tag) {
			boost += tagBoost
		}
	}

	description := strings.ToLower(record.Description)
	for _, column := range columns {
		if column == "" {
			continue
		}
		if strings.Contains(description, strings.ToLower(column)) {
			boost += columnBoost
		}
	}

	return boost
}
