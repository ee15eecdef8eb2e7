package retrieval

import (
	"strings"

	"github.com/helio-cloud/ragcore/internal/domain/document"
)

// Filter is a disjunctive term filter: a document matches when any term
// appears in its title or content as a case-insensitive substring, or —
// if tag matching is enabled — equals one of its tags case-insensitively.
// The fallback search path disables tag matching on purpose.
type Filter struct {
	terms     []string
	matchTags bool
}

// NewFilter creates a Filter over the given terms.
func NewFilter(terms []string, matchTags bool) Filter {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}
	return Filter{terms: lowered, matchTags: matchTags}
}

// Terms returns the lowercased filter terms.
func (f Filter) Terms() []string { return f.terms }

// MatchTags reports whether tag membership participates in matching.
func (f Filter) MatchTags() bool { return f.matchTags }

// IsEmpty reports whether the filter has no terms.
func (f Filter) IsEmpty() bool { return len(f.terms) == 0 }

// Matches evaluates the disjunctive predicate against a document.
func (f Filter) Matches(doc *document.Document) bool {
	if f.IsEmpty() {
		return false
	}

	title := strings.ToLower(doc.Title())
	content := strings.ToLower(doc.Content())

	for _, term := range f.terms {
		if strings.Contains(title, term) || strings.Contains(content, term) {
			return true
		}
		if !f.matchTags {
			continue
		}
		for _, tag := range doc.Tags() {
			if strings.EqualFold(tag, term) {
				return true
			}
		}
	}
	return false
}
