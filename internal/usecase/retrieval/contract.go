package retrieval

import (
	"context"

	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	domret "github.com/helio-cloud/ragcore/internal/domain/retrieval"
)

// Repository defines the storage contract for retrieval operations.
type Repository interface {
	// FindActive returns up to limit active in-scope documents matching
	// the disjunctive filter predicate.
	FindActive(
		ctx context.Context, scope domain.TenantScope,
		filter domret.Filter, limit int,
	) ([]domdoc.Document, error)

	// FindRecent returns up to limit active in-scope documents ordered by
	// creation time descending.
	FindRecent(
		ctx context.Context, scope domain.TenantScope, limit int,
	) ([]domdoc.Document, error)
}
