package retrieval

import "github.com/helio-cloud/ragcore/internal/domain/document"

// ScoredDocument is a transient projection of a Document with its relevance
// score. It lives only for the duration of one retrieval call and is never
// persisted.
type ScoredDocument struct {
	doc   document.Document
	score int
}

// NewScoredDocument attaches a relevance score to a document.
// Scores are never negative.
func NewScoredDocument(doc document.Document, score int) ScoredDocument {
	if score < 0 {
		score = 0
	}
	return ScoredDocument{doc: doc, score: score}
}

// Document returns the underlying document.
func (s ScoredDocument) Document() document.Document { return s.doc }

// Score returns the relevance score.
func (s ScoredDocument) Score() int { return s.score }
