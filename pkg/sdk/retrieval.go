package ragcore

import (
	"context"
	"time"

	"github.com/helio-cloud/ragcore/internal/domain"
)

// RetrievalService runs keyword retrieval for a single tenant.
type RetrievalService struct {
	org     string
	engines engineFactory
	obs     *observer
}

// Retrieve returns up to limit documents ranked by relevance to the
// query. Store failures degrade to an empty result.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, limit int) []Document {
	start := time.Now()
	defer func() { s.obs.observe("retrieval.retrieve", start, nil) }()

	engine := s.engines(domain.ScopeTo(s.org))
	docs := engine.RetrieveRelevantDocuments(ctx, query, limit)

	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = fromInternalDocument(d)
	}
	return out
}

// Inspect runs the full retrieval pipeline and returns its
// intermediate products: keywords, ranked documents, and the
// assembled context block.
func (s *RetrievalService) Inspect(ctx context.Context, query string, limit int) Inspection {
	start := time.Now()
	defer func() { s.obs.observe("retrieval.inspect", start, nil) }()

	engine := s.engines(domain.ScopeTo(s.org))
	insp := engine.Inspect(ctx, query, limit)

	docs := make([]Document, len(insp.Documents))
	for i, d := range insp.Documents {
		docs[i] = fromInternalDocument(d)
	}
	return Inspection{
		Keywords:  insp.Keywords,
		Documents: docs,
		Context:   insp.Context,
	}
}
