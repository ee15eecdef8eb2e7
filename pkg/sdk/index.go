package ragcore

import (
	"context"
	"fmt"
)

// TypedIndex is a generic, schema-first view of one tenant's documents.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	org    string
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index handle for the given tenant.
// T must be a struct with ragcore tags. Schema is parsed once and cached.
func NewIndex[T any](client *Client, org string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", org, err)
	}
	return &TypedIndex[T]{org: org, client: client, meta: meta}, nil
}

// Put stores a new item. Returns the stored item; an empty ID field
// comes back filled with the generated one.
func (idx *TypedIndex[T]) Put(ctx context.Context, item T) (T, error) {
	doc, err := idx.client.Documents(idx.org).Create(ctx, idx.meta.toDocument(item))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("put: %w", err)
	}
	return idx.fromDocument(doc)
}

// Update replaces an existing item's title, content, and tags.
func (idx *TypedIndex[T]) Update(ctx context.Context, item T) (T, error) {
	doc, err := idx.client.Documents(idx.org).Update(ctx, idx.meta.toDocument(item))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("update: %w", err)
	}
	return idx.fromDocument(doc)
}

// Get retrieves a typed item by ID.
func (idx *TypedIndex[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := idx.client.Documents(idx.org).Get(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get: %w", err)
	}
	return idx.fromDocument(doc)
}

// Delete soft-deletes an item by ID.
func (idx *TypedIndex[T]) Delete(ctx context.Context, id string) error {
	return idx.client.Documents(idx.org).Delete(ctx, id)
}

// Count returns the number of items in the tenant's index.
func (idx *TypedIndex[T]) Count(ctx context.Context) (int, error) {
	return idx.client.Documents(idx.org).Count(ctx)
}

// Retrieve runs the relevance pipeline for the query and returns the
// matching items, best first.
func (idx *TypedIndex[T]) Retrieve(ctx context.Context, query string, limit int) ([]T, error) {
	docs := idx.client.Retrieval(idx.org).Retrieve(ctx, query, limit)
	items := make([]T, 0, len(docs))
	for i, doc := range docs {
		item, err := idx.fromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (idx *TypedIndex[T]) fromDocument(doc Document) (T, error) {
	item, ok := idx.meta.fromDocument(doc).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("type assertion failed for %s", idx.meta.typ)
	}
	return item, nil
}
