package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/helio-cloud/ragcore/internal/db"
	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	"github.com/helio-cloud/ragcore/internal/domain/retrieval"
)

// DefaultKeyPrefix prefixes every Redis key the repository writes.
const DefaultKeyPrefix = "ragcore:"

// fetchPageSize bounds a single FT.SEARCH page while scanning for
// predicate matches.
const fetchPageSize = 50

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetNX(ctx context.Context, key, path string, data []byte) (bool, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the document store port for the retrieval engine and
// the management service.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository with the default key prefix.
func New(s store) *Repo {
	return &Repo{store: s, prefix: DefaultKeyPrefix}
}

// WithKeyPrefix overrides the Redis key prefix. Returns the repo for chaining.
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// EnsureIndex creates the document search index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(name).
		OnJSON().
		Prefix(r.docKeyPrefix()).
		Tag("$.org", "org").
		Tag("$.active", "active").
		NumericSortable("$.created_at", "created_at").
		Build()
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Upsert creates or updates a document. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domdoc.Document) (bool, error) {
	key := r.docKey(doc.ID())
	data, err := json.Marshal(buildJSONDoc(doc))
	if err != nil {
		return false, fmt.Errorf("marshal document: %w", err)
	}

	// NX first so concurrent upserts of the same ID agree on which one
	// created the document.
	created, err := r.store.JSONSetNX(ctx, key, "$", data)
	if err != nil {
		return false, fmt.Errorf("json.set nx %s: %w", key, err)
	}
	if created {
		return true, nil
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	return false, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := r.docKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseJSONGetResult(id, raw)
}

// Delete removes a document key entirely. Soft deletion is the management
// service's concern; this is the hard removal underneath it.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.docKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// List returns documents in a tenant scope with cursor-based pagination.
// Inactive documents are included; listing is a management operation.
func (r *Repo) List(ctx context.Context, scope domain.TenantScope, cursor string, limit int) (
	[]domdoc.Document, string, error,
) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil || parsed < 0 {
			return nil, "", fmt.Errorf("%w: invalid cursor %q", domain.ErrInvalidRequest, cursor)
		}
		offset = parsed
	}

	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.indexName(),
		Query:        r.scopeQuery(scope, false),
		Offset:       offset,
		Limit:        limit + 1,
		SortBy:       "created_at",
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("search list: %w", err)
	}
	if result == nil || len(result.Entries) == 0 {
		return nil, "", nil
	}

	docs := make([]domdoc.Document, 0, limit)
	for i := range result.Entries {
		if i >= limit {
			break
		}
		docs = append(docs, r.parseEntry(&result.Entries[i]))
	}

	var nextCursor string
	if len(result.Entries) > limit {
		nextCursor = strconv.Itoa(offset + limit)
	}

	return docs, nextCursor, nil
}

// Count returns the number of documents in a tenant scope.
func (r *Repo) Count(ctx context.Context, scope domain.TenantScope) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), r.scopeQuery(scope, false))
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// FindActive returns up to limit active in-scope documents matching the
// filter predicate. The index narrows candidates to active documents in
// the tenant scope; the substring/membership predicate runs in Go because
// full-text indexing tokenizes and cannot express substring containment.
func (r *Repo) FindActive(
	ctx context.Context, scope domain.TenantScope, filter retrieval.Filter, limit int,
) ([]domdoc.Document, error) {
	if limit <= 0 || filter.IsEmpty() {
		return nil, nil
	}

	matched := make([]domdoc.Document, 0, limit)
	offset := 0
	for len(matched) < limit {
		result, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName:    r.indexName(),
			Query:        r.scopeQuery(scope, true),
			Offset:       offset,
			Limit:        fetchPageSize,
			ReturnFields: []string{"$"},
		})
		if err != nil {
			return nil, fmt.Errorf("search active: %w", err)
		}
		if result == nil || len(result.Entries) == 0 {
			break
		}

		for i := range result.Entries {
			doc := r.parseEntry(&result.Entries[i])
			if filter.Matches(&doc) {
				matched = append(matched, doc)
				if len(matched) == limit {
					break
				}
			}
		}

		offset += len(result.Entries)
		if offset >= result.Total {
			break
		}
	}

	return matched, nil
}

// FindRecent returns up to limit active in-scope documents ordered by
// creation time descending.
func (r *Repo) FindRecent(
	ctx context.Context, scope domain.TenantScope, limit int,
) ([]domdoc.Document, error) {
	if limit <= 0 {
		return nil, nil
	}

	result, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.indexName(),
		Query:        r.scopeQuery(scope, true),
		Offset:       0,
		Limit:        limit,
		SortBy:       "created_at",
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("search recent: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	docs := make([]domdoc.Document, 0, len(result.Entries))
	for i := range result.Entries {
		docs = append(docs, r.parseEntry(&result.Entries[i]))
	}
	return docs, nil
}

// scopeQuery builds the FT query narrowing by tenant and activity.
func (r *Repo) scopeQuery(scope domain.TenantScope, activeOnly bool) string {
	var clauses []string
	if org, ok := scope.OrgID(); ok {
		clauses = append(clauses, db.TagFilter("org", org))
	}
	if activeOnly {
		clauses = append(clauses, db.TagFilter("active", "true"))
	}
	return db.AndFilters(clauses...)
}

func (r *Repo) parseEntry(entry *db.SearchEntry) domdoc.Document {
	id := strings.TrimPrefix(entry.Key, r.docKeyPrefix())
	return parseSearchField(id, entry.Fields["$"])
}

func (r *Repo) docKey(id string) string {
	return r.docKeyPrefix() + id
}

func (r *Repo) docKeyPrefix() string {
	return r.prefix + "doc:"
}

func (r *Repo) indexName() string {
	return r.prefix + "idx:documents"
}
