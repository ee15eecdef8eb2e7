package ragcore

import (
	"context"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	chatuc "github.com/helio-cloud/ragcore/internal/usecase/chat"
	healthuc "github.com/helio-cloud/ragcore/internal/usecase/health"
	retrievaluc "github.com/helio-cloud/ragcore/internal/usecase/retrieval"
)

// --- documentUseCase mock ---

type mockDocumentUC struct {
	createFn func(ctx context.Context, orgID, id, title, content string, tags []string) (domdoc.Document, error)
	getFn    func(ctx context.Context, orgID, id string) (domdoc.Document, error)
	updateFn func(ctx context.Context, orgID, id, title, content string, tags []string) (domdoc.Document, error)
	deleteFn func(ctx context.Context, orgID, id string) error
	purgeFn  func(ctx context.Context, orgID, id string) error
	listFn   func(ctx context.Context, orgID, cursor string, limit int) ([]domdoc.Document, string, error)
	countFn  func(ctx context.Context, orgID string) (int, error)
}

func (m *mockDocumentUC) Create(
	ctx context.Context, orgID, id, title, content string, tags []string,
) (domdoc.Document, error) {
	return m.createFn(ctx, orgID, id, title, content, tags)
}

func (m *mockDocumentUC) Get(ctx context.Context, orgID, id string) (domdoc.Document, error) {
	return m.getFn(ctx, orgID, id)
}

func (m *mockDocumentUC) Update(
	ctx context.Context, orgID, id, title, content string, tags []string,
) (domdoc.Document, error) {
	return m.updateFn(ctx, orgID, id, title, content, tags)
}

func (m *mockDocumentUC) Delete(ctx context.Context, orgID, id string) error {
	return m.deleteFn(ctx, orgID, id)
}

func (m *mockDocumentUC) Purge(ctx context.Context, orgID, id string) error {
	return m.purgeFn(ctx, orgID, id)
}

func (m *mockDocumentUC) List(
	ctx context.Context, orgID, cursor string, limit int,
) ([]domdoc.Document, string, error) {
	return m.listFn(ctx, orgID, cursor, limit)
}

func (m *mockDocumentUC) Count(ctx context.Context, orgID string) (int, error) {
	return m.countFn(ctx, orgID)
}

// --- retrievalEngine mock ---

type mockEngine struct {
	retrieveFn func(ctx context.Context, query string, limit int) []domdoc.Document
	inspectFn  func(ctx context.Context, query string, limit int) retrievaluc.Inspection
}

func (m *mockEngine) RetrieveRelevantDocuments(
	ctx context.Context, query string, limit int,
) []domdoc.Document {
	return m.retrieveFn(ctx, query, limit)
}

func (m *mockEngine) ContextBlock(_ []domdoc.Document) string { return "" }

func (m *mockEngine) Inspect(
	ctx context.Context, query string, limit int,
) retrievaluc.Inspection {
	return m.inspectFn(ctx, query, limit)
}

// --- chatUseCase mock ---

type mockChatUC struct {
	respondFn func(ctx context.Context, orgID, query string, history []domchat.Message) (chatuc.Result, error)
}

func (m *mockChatUC) Respond(
	ctx context.Context, orgID, query string, history []domchat.Message,
) (chatuc.Result, error) {
	return m.respondFn(ctx, orgID, query, history)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- helpers ---

func scopedEngines(engine retrievalEngine) engineFactory {
	return func(_ domain.TenantScope) retrievalEngine { return engine }
}
