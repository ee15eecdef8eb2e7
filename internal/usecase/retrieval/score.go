package retrieval

import (
	"sort"
	"strings"

	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	domret "github.com/helio-cloud/ragcore/internal/domain/retrieval"
)

// Weights is the tunable relevance scoring table. All checks are
// case-insensitive and the signals are additive.
type Weights struct {
	// TitleExactQuery scores a title containing the full original query.
	TitleExactQuery int
	// ContentExactQuery scores content containing the full original query.
	ContentExactQuery int
	// TitleKeyword scores each keyword found in the title.
	TitleKeyword int
	// ContentKeyword scores each keyword found in the content.
	ContentKeyword int
	// TagKeyword scores each keyword found inside any tag.
	TagKeyword int
	// BrevityBonus scores content shorter than BrevityThreshold characters.
	BrevityBonus     int
	BrevityThreshold int
}

// DefaultWeights returns the calibrated scoring table.
func DefaultWeights() Weights {
	return Weights{
		TitleExactQuery:   100,
		ContentExactQuery: 50,
		TitleKeyword:      10,
		ContentKeyword:    3,
		TagKeyword:        15,
		BrevityBonus:      5,
		BrevityThreshold:  1000,
	}
}

// scoreDocuments ranks candidates by weighted relevance signals.
// The sort is stable: equal scores preserve candidate order. Documents
// matching no signal score 0 and are kept; only the caller's limit
// truncation excludes them.
func scoreDocuments(
	candidates []domdoc.Document, keywords []string, originalQuery string, w Weights,
) []domret.ScoredDocument {
	query := strings.ToLower(strings.TrimSpace(originalQuery))

	scored := make([]domret.ScoredDocument, 0, len(candidates))
	for i := range candidates {
		doc := candidates[i]
		scored = append(scored, domret.NewScoredDocument(doc, scoreOne(&doc, keywords, query, w)))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})
	return scored
}

func scoreOne(doc *domdoc.Document, keywords []string, query string, w Weights) int {
	title := strings.ToLower(doc.Title())
	content := strings.ToLower(doc.Content())

	score := 0
	if query != "" && strings.Contains(title, query) {
		score += w.TitleExactQuery
	}
	if query != "" && strings.Contains(content, query) {
		score += w.ContentExactQuery
	}

	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			score += w.TitleKeyword
		}
		if strings.Contains(content, kw) {
			score += w.ContentKeyword
		}
		for _, tag := range doc.Tags() {
			if strings.Contains(strings.ToLower(tag), kw) {
				score += w.TagKeyword
				break
			}
		}
	}

	if len(doc.Content()) < w.BrevityThreshold {
		score += w.BrevityBonus
	}
	return score
}
