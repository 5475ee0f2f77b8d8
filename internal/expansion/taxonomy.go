package expansion

import "strings"

// tagExpansions maps a base tag to the related tags searched alongside it.
// Tags outside the taxonomy expand to themselves alone.
var tagExpansions = map[string][]string{
	"finance":    {"business", "economics", "banking", "investment", "financial", "money", "credit", "loan", "market", "trading"},
	"healthcare": {"health", "medical", "medicine", "patient", "clinical", "hospital", "diagnosis", "treatment"},
	"technology": {"tech", "software", "computer", "ai", "machine learning", "data science", "programming"},
	"business":   {"marketing", "sales", "customer", "revenue", "profit", "company", "corporate"},
	"education":  {"student", "learning", "academic", "school", "university", "course", "training"},
}

// domainColumnKeywords maps a domain to column names commonly found in
// datasets of that domain, used by comprehensive collection runs.
var domainColumnKeywords = map[string][]string{
	"finance":    {"amount", "price", "cost", "revenue", "profit", "transaction", "payment", "balance", "account", "interest"},
	"healthcare": {"patient", "diagnosis", "treatment", "symptom", "medication", "age", "gender", "blood", "pressure"},
	"technology": {"user", "session", "click", "download", "performance", "error", "log", "timestamp", "device"},
	"business":   {"customer", "order", "product", "sales", "marketing", "campaign", "conversion", "retention"},
	"education":  {"student", "grade", "course", "assignment", "score", "attendance", "teacher", "subject"},
}

// genericColumnKeywords is the fallback for domains outside the table.
var genericColumnKeywords = []string{"id", "name", "date", "value", "type", "category"}

// ExpandTag returns the taxonomy expansion for a base tag, or the tag
// itself when it is not in the taxonomy.
func ExpandTag(tag string) []string {
	key := strings.ToLower(strings.TrimSpace(tag))
	if expanded, ok := tagExpansions[key]; ok {
		out := make([]string, len(expanded))
		copy(out, expanded)
		return out
	}
	return []string{key}
}

// DomainColumnKeywords returns the column keywords for a domain, falling
// back to generic column names for domains outside the table.
func DomainColumnKeywords(domainName string) []string {
	key := strings.ToLower(strings.TrimSpace(domainName))
	if keywords, ok := domainColumnKeywords[key]; ok {
		out := make([]string, len(keywords))
		copy(out, keywords)
		return out
	}
	out := make([]string, len(genericColumnKeywords))
	copy(out, genericColumnKeywords)
	return out
}
