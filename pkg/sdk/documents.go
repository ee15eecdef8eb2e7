package ragcore

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// DocumentService manages documents owned by a single tenant.
type DocumentService struct {
	org string
	svc documentUseCase
	obs *observer
}

// Create validates and stores a new document. An empty ID gets a
// generated UUID. Returns the stored document.
func (s *DocumentService) Create(ctx context.Context, doc Document) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.create", start, err) }()

	d, err := s.svc.Create(ctx, s.org, doc.ID, doc.Title, doc.Content, doc.Tags)
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.get", start, err) }()

	d, err := s.svc.Get(ctx, s.org, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Update replaces a document's title, content, and tags.
func (s *DocumentService) Update(ctx context.Context, doc Document) (_ Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.update", start, err) }()

	d, err := s.svc.Update(ctx, s.org, doc.ID, doc.Title, doc.Content, doc.Tags)
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	return fromInternalDocument(d), nil
}

// Delete soft-deletes a document: it stays stored but retrieval never
// sees it again.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.delete", start, err) }()

	if err = s.svc.Delete(ctx, s.org, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Purge removes a document key entirely. Unlike Delete this is not
// reversible.
func (s *DocumentService) Purge(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.purge", start, err) }()

	if err = s.svc.Purge(ctx, s.org, id); err != nil {
		return fmt.Errorf("purge document: %w", err)
	}
	return nil
}

// List returns a paginated list of the tenant's documents, newest first.
func (s *DocumentService) List(
	ctx context.Context, cursor string, limit int,
) (_ ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.list", start, err) }()

	docs, next, err := s.svc.List(ctx, s.org, cursor, limit)
	if err != nil {
		return ListResult{}, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = fromInternalDocument(d)
	}
	return ListResult{Documents: out, NextCursor: next}, nil
}

// Count returns the number of the tenant's documents, inactive included.
func (s *DocumentService) Count(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("document.count", start, err) }()

	n, err := s.svc.Count(ctx, s.org)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:        d.ID(),
		Title:     d.Title(),
		Content:   d.Content(),
		Tags:      d.Tags(),
		Org:       d.OrganizationID(),
		Active:    d.IsActive(),
		CreatedAt: d.CreatedAt(),
	}
}
