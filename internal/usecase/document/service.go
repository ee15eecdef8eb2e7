package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// Service handles knowledge base document management: creation, updates,
// soft deletion, and listing. Retrieval never mutates documents; every
// write in the system flows through this service.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a document management service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Create validates and stores a new document owned by the given tenant.
// An empty id gets a generated UUID.
func (s *Service) Create(
	ctx context.Context, orgID, id, title, content string, tags []string,
) (domdoc.Document, error) {
	if id == "" {
		id = uuid.NewString()
	}

	doc, err := domdoc.New(id, title, content, normalizeTags(tags), orgID)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}

	created, err := s.repo.Upsert(ctx, &doc)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("store document: %w", err)
	}
	if !created {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", doc.ID(), domain.ErrAlreadyExists)
	}
	return doc, nil
}

// Get returns a tenant's document by ID. Documents of other tenants are
// reported as not found rather than forbidden.
func (s *Service) Get(ctx context.Context, orgID, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	if !ownedBy(&doc, orgID) {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// Update replaces a document's title, content, and tags.
func (s *Service) Update(
	ctx context.Context, orgID, id, title, content string, tags []string,
) (domdoc.Document, error) {
	current, err := s.Get(ctx, orgID, id)
	if err != nil {
		return domdoc.Document{}, err
	}

	// Revalidate through the constructor, then keep the original identity.
	if _, err := domdoc.New(id, title, content, tags, orgID); err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidDocument, err)
	}

	updated := current.WithContent(title, content, normalizeTags(tags))
	if _, err := s.repo.Upsert(ctx, &updated); err != nil {
		return domdoc.Document{}, fmt.Errorf("store document: %w", err)
	}
	return updated, nil
}

// Delete soft-deletes a document: it stays stored but retrieval never
// sees it again.
func (s *Service) Delete(ctx context.Context, orgID, id string) error {
	doc, err := s.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	deactivated := doc.Deactivated()
	if _, err := s.repo.Upsert(ctx, &deactivated); err != nil {
		return fmt.Errorf("deactivate document: %w", err)
	}
	return nil
}

// Purge removes a document key entirely. Unlike Delete this is not
// reversible and frees the storage.
func (s *Service) Purge(ctx context.Context, orgID, id string) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("purge document: %w", err)
	}
	return nil
}

// List returns a paginated list of a tenant's documents, newest first.
func (s *Service) List(
	ctx context.Context, orgID, cursor string, limit int,
) ([]domdoc.Document, string, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	docs, nextCursor, err := s.repo.List(ctx, domain.ScopeTo(orgID), cursor, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list documents: %w", err)
	}
	return docs, nextCursor, nil
}

// Count returns the number of a tenant's documents, inactive included.
func (s *Service) Count(ctx context.Context, orgID string) (int, error) {
	n, err := s.repo.Count(ctx, domain.ScopeTo(orgID))
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// ownedBy reports whether a document belongs to the tenant. An empty
// orgID addresses ungrouped documents only.
func ownedBy(doc *domdoc.Document, orgID string) bool {
	return doc.OrganizationID() == orgID
}

// normalizeTags trims tags and drops empties and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
