package document

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/helio-cloud/ragcore/internal/domain"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// --- Mocks ---

type mockRepo struct {
	docs map[string]domdoc.Document

	upsertErr error
	getErr    error
	listErr   error

	lastUpserted *domdoc.Document
	lastScope    domain.TenantScope
	lastLimit    int
}

func newMockRepo() *mockRepo {
	return &mockRepo{docs: make(map[string]domdoc.Document)}
}

func (m *mockRepo) Upsert(_ context.Context, doc *domdoc.Document) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	m.lastUpserted = doc
	_, existed := m.docs[doc.ID()]
	m.docs[doc.ID()] = *doc
	return !existed, nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domdoc.Document, error) {
	if m.getErr != nil {
		return domdoc.Document{}, m.getErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockRepo) List(
	_ context.Context, scope domain.TenantScope, _ string, limit int,
) ([]domdoc.Document, string, error) {
	if m.listErr != nil {
		return nil, "", m.listErr
	}
	m.lastScope = scope
	m.lastLimit = limit
	return nil, "", nil
}

func (m *mockRepo) Count(_ context.Context, scope domain.TenantScope) (int, error) {
	m.lastScope = scope
	return len(m.docs), nil
}

func (m *mockRepo) seed(t *testing.T, id, org string) domdoc.Document {
	t.Helper()
	doc := domdoc.Reconstruct(
		id, "Seeded title", "seeded content", []string{"seed"}, org, true,
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	m.docs[id] = doc
	return doc
}

// --- Tests ---

func TestCreate_GeneratesID(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	doc, err := svc.Create(context.Background(), "acme", "", "Title", "content", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() == "" {
		t.Fatal("expected a generated ID")
	}
	if doc.OrganizationID() != "acme" {
		t.Errorf("expected org acme, got %s", doc.OrganizationID())
	}
	if !doc.IsActive() {
		t.Error("new documents must be active")
	}
}

func TestCreate_ExplicitID(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	doc, err := svc.Create(context.Background(), "acme", "guide-1", "Title", "content", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID() != "guide-1" {
		t.Errorf("expected guide-1, got %s", doc.ID())
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	repo := newMockRepo()
	repo.seed(t, "guide-1", "acme")
	svc := New(repo)

	_, err := svc.Create(context.Background(), "acme", "guide-1", "Title", "content", nil)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	tests := []struct {
		name    string
		id      string
		title   string
		content string
	}{
		{"missing title", "d1", "", "content"},
		{"missing content", "d1", "Title", ""},
		{"bad id characters", "d 1", "Title", "content"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "acme", tc.id, tc.title, tc.content, nil)
			if !errors.Is(err, domain.ErrInvalidDocument) {
				t.Fatalf("expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestCreate_NormalizesTags(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	doc, err := svc.Create(context.Background(), "acme", "", "Title", "content",
		[]string{" billing ", "Billing", "", "faq"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"billing", "faq"}
	if !reflect.DeepEqual(doc.Tags(), want) {
		t.Errorf("tags = %v, want %v", doc.Tags(), want)
	}
}

func TestGet_OtherTenantHidden(t *testing.T) {
	repo := newMockRepo()
	repo.seed(t, "their-doc", "globex")
	svc := New(repo)

	_, err := svc.Get(context.Background(), "acme", "their-doc")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound for foreign doc, got %v", err)
	}
}

func TestUpdate_ReplacesContent(t *testing.T) {
	repo := newMockRepo()
	seeded := repo.seed(t, "d1", "acme")
	svc := New(repo)

	updated, err := svc.Update(context.Background(), "acme", "d1", "New title", "new content", []string{"fresh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title() != "New title" || updated.Content() != "new content" {
		t.Errorf("unexpected updated doc: %s / %s", updated.Title(), updated.Content())
	}
	if !updated.CreatedAt().Equal(seeded.CreatedAt()) {
		t.Error("update must preserve the creation timestamp")
	}
	if updated.ID() != "d1" {
		t.Errorf("update must preserve identity, got %s", updated.ID())
	}
}

func TestUpdate_ValidationFailure(t *testing.T) {
	repo := newMockRepo()
	repo.seed(t, "d1", "acme")
	svc := New(repo)

	_, err := svc.Update(context.Background(), "acme", "d1", "", "new content", nil)
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestDelete_SoftDeletes(t *testing.T) {
	repo := newMockRepo()
	repo.seed(t, "d1", "acme")
	svc := New(repo)

	if err := svc.Delete(context.Background(), "acme", "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.docs["d1"]
	if stored.IsActive() {
		t.Error("expected the stored document to be deactivated")
	}
	if stored.Title() != "Seeded title" {
		t.Error("soft delete must keep the document content")
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	err := svc.Delete(context.Background(), "acme", "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestPurge_RemovesKey(t *testing.T) {
	repo := newMockRepo()
	repo.seed(t, "d1", "acme")
	svc := New(repo)

	if err := svc.Purge(context.Background(), "acme", "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.docs["d1"]; ok {
		t.Error("expected the document key to be removed")
	}
}

func TestList_CapsLimit(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo).WithPagination(10, 50)

	if _, _, err := svc.List(context.Background(), "acme", "", 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 50 {
		t.Errorf("expected limit capped at 50, got %d", repo.lastLimit)
	}

	if _, _, err := svc.List(context.Background(), "acme", "", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != 10 {
		t.Errorf("expected default limit 10, got %d", repo.lastLimit)
	}
}

func TestList_ScopesToTenant(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)

	if _, _, err := svc.List(context.Background(), "acme", "", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	org, ok := repo.lastScope.OrgID()
	if !ok || org != "acme" {
		t.Errorf("expected scope acme, got %v %v", org, ok)
	}
}

func TestList_RepoError(t *testing.T) {
	repo := newMockRepo()
	repo.listErr = errors.New("boom")
	svc := New(repo)

	if _, _, err := svc.List(context.Background(), "acme", "", 5); err == nil {
		t.Fatal("expected error")
	}
}
