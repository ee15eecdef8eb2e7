package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	domret "github.com/helio-cloud/ragcore/internal/domain/retrieval"
	"github.com/helio-cloud/ragcore/internal/metrics"
)

// overfetchFactor widens the primary search so the scorer has more
// material to rank than the caller asked for.
const overfetchFactor = 2

// Engine retrieves and ranks knowledge base documents for one tenant.
// The tenant scope is bound at construction and never changes; callers
// wanting a different scope build a new instance via the Factory.
// The engine is stateless across calls: no caching, no cross-query memory.
type Engine struct {
	repo    Repository
	scope   domain.TenantScope
	weights Weights
	logger  *zap.Logger
}

// Inspection is the debug projection of one retrieval run.
type Inspection struct {
	Keywords  []string
	Documents []domdoc.Document
	Context   string
}

// Factory builds tenant-scoped engines sharing one repository,
// scoring table, and logger.
type Factory struct {
	repo    Repository
	weights Weights
	logger  *zap.Logger
}

// NewFactory creates an engine factory with default weights.
func NewFactory(repo Repository) *Factory {
	return &Factory{
		repo:    repo,
		weights: DefaultWeights(),
		logger:  zap.NewNop(),
	}
}

// WithWeights overrides the scoring table. Returns the factory for chaining.
func (f *Factory) WithWeights(w Weights) *Factory {
	f.weights = w
	return f
}

// WithLogger sets the logger. Returns the factory for chaining.
func (f *Factory) WithLogger(logger *zap.Logger) *Factory {
	if logger != nil {
		f.logger = logger
	}
	return f
}

// Scoped returns an engine bound to the given tenant scope.
func (f *Factory) Scoped(scope domain.TenantScope) *Engine {
	return &Engine{
		repo:    f.repo,
		scope:   scope,
		weights: f.weights,
		logger:  f.logger,
	}
}

// RetrieveRelevantDocuments returns up to limit documents ranked by
// relevance to the query. Store failures degrade to an empty result:
// the calling chat flow proceeds with zero context rather than failing
// the user request. Operators see the failure through logs and the
// failure counter only.
func (e *Engine) RetrieveRelevantDocuments(
	ctx context.Context, query string, limit int,
) []domdoc.Document {
	if limit <= 0 {
		return nil
	}

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	start := time.Now()

	filter := domret.NewFilter(keywords, true)
	candidates, err := e.repo.FindActive(ctx, e.scope, filter, overfetchFactor*limit)
	if err != nil {
		e.logger.Warn("Primary retrieval failed",
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.RetrievalFailuresTotal.WithLabelValues("primary").Inc()
		return nil
	}

	if len(candidates) == 0 {
		return e.fallback(ctx, query, limit, start)
	}

	scored := scoreDocuments(candidates, keywords, query, e.weights)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	docs := make([]domdoc.Document, 0, len(scored))
	for i := range scored {
		docs = append(docs, scored[i].Document())
	}

	e.observe("primary", docs, start)
	return docs
}

// fallback casts a wider net after the primary filter matched nothing:
// plain word matching without tag filtering, or most-recent documents
// when the query holds no usable words. Results are returned in store
// order, unscored. Store failures degrade to empty like the primary path.
func (e *Engine) fallback(
	ctx context.Context, query string, limit int, start time.Time,
) []domdoc.Document {
	words := fallbackWords(query)

	var (
		docs []domdoc.Document
		err  error
		path string
	)
	if len(words) == 0 {
		path = "fallback_recent"
		docs, err = e.repo.FindRecent(ctx, e.scope, limit)
	} else {
		path = "fallback_words"
		docs, err = e.repo.FindActive(ctx, e.scope, domret.NewFilter(words, false), limit)
	}
	if err != nil {
		e.logger.Warn("Fallback retrieval failed",
			zap.String("query", query),
			zap.String("path", path),
			zap.Error(err),
		)
		metrics.RetrievalFailuresTotal.WithLabelValues("fallback").Inc()
		return nil
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}
	e.observe(path, docs, start)
	return docs
}

// ContextBlock renders documents into the prompt-context string.
func (e *Engine) ContextBlock(docs []domdoc.Document) string {
	return assembleContext(docs)
}

// Inspect runs one full retrieval and returns its intermediate stages
// for operator-facing diagnostics.
func (e *Engine) Inspect(ctx context.Context, query string, limit int) Inspection {
	docs := e.RetrieveRelevantDocuments(ctx, query, limit)
	return Inspection{
		Keywords:  ExtractKeywords(query),
		Documents: docs,
		Context:   assembleContext(docs),
	}
}

func (e *Engine) observe(path string, docs []domdoc.Document, start time.Time) {
	metrics.RetrievalRequestsTotal.WithLabelValues(path).Inc()
	metrics.RetrievalRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	metrics.RetrievalDocumentsReturned.WithLabelValues(path).Observe(float64(len(docs)))

	e.logger.Debug("Retrieval completed",
		zap.String("path", path),
		zap.Int("documents", len(docs)),
	)
}
