package document

import (
	"context"

	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// Repository defines the storage contract for document management.
type Repository interface {
	Upsert(ctx context.Context, doc *domdoc.Document) (bool, error)
	Get(ctx context.Context, id string) (domdoc.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope domain.TenantScope, cursor string, limit int) (
		[]domdoc.Document, string, error)
	Count(ctx context.Context, scope domain.TenantScope) (int, error)
}
