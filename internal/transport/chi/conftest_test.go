package chi

import (
	"context"
	"net/http"
	"sort"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	domret "github.com/helio-cloud/ragcore/internal/domain/retrieval"
	chatuc "github.com/helio-cloud/ragcore/internal/usecase/chat"
	documentuc "github.com/helio-cloud/ragcore/internal/usecase/document"
	healthuc "github.com/helio-cloud/ragcore/internal/usecase/health"
	retrievaluc "github.com/helio-cloud/ragcore/internal/usecase/retrieval"
)

// memRepo is an in-memory document store backing both the document
// and retrieval contracts for handler tests.
type memRepo struct {
	docs map[string]domdoc.Document

	upsertErr error
	getErr    error
	listErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{docs: make(map[string]domdoc.Document)}
}

func (m *memRepo) seed(id, title, content, org string, tags ...string) {
	m.docs[id] = domdoc.Reconstruct(
		id, title, content, tags, org, true,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(m.docs))*time.Minute),
	)
}

func (m *memRepo) Upsert(_ context.Context, doc *domdoc.Document) (bool, error) {
	if m.upsertErr != nil {
		return false, m.upsertErr
	}
	_, existed := m.docs[doc.ID()]
	m.docs[doc.ID()] = *doc
	return !existed, nil
}

func (m *memRepo) Get(_ context.Context, id string) (domdoc.Document, error) {
	if m.getErr != nil {
		return domdoc.Document{}, m.getErr
	}
	doc, ok := m.docs[id]
	if !ok {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memRepo) List(
	_ context.Context, scope domain.TenantScope, cursor string, limit int,
) ([]domdoc.Document, string, error) {
	if m.listErr != nil {
		return nil, "", m.listErr
	}
	docs := m.inScope(scope)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt().After(docs[j].CreatedAt())
	})
	if len(docs) > limit {
		docs = docs[:limit]
		return docs, "next", nil
	}
	_ = cursor
	return docs, "", nil
}

func (m *memRepo) Count(_ context.Context, scope domain.TenantScope) (int, error) {
	return len(m.inScope(scope)), nil
}

func (m *memRepo) FindActive(
	_ context.Context, scope domain.TenantScope, filter domret.Filter, limit int,
) ([]domdoc.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domdoc.Document
	for _, doc := range m.inScope(scope) {
		if !doc.IsActive() || !filter.Matches(&doc) {
			continue
		}
		out = append(out, doc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRepo) FindRecent(
	_ context.Context, scope domain.TenantScope, limit int,
) ([]domdoc.Document, error) {
	docs := m.inScope(scope)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt().After(docs[j].CreatedAt())
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *memRepo) inScope(scope domain.TenantScope) []domdoc.Document {
	var out []domdoc.Document
	for _, doc := range m.docs {
		if org, scoped := scope.OrgID(); scoped && doc.OrganizationID() != org {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// fakeCompleter returns a fixed reply and records the prompt it saw.
type fakeCompleter struct {
	reply        domchat.Reply
	err          error
	lastMessages []domchat.Message
}

func (f *fakeCompleter) Complete(
	_ context.Context, messages []domchat.Message,
) (domchat.Reply, error) {
	f.lastMessages = messages
	if f.err != nil {
		return domchat.Reply{}, f.err
	}
	return f.reply, nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

type fakeLLMChecker struct{ err error }

func (f *fakeLLMChecker) HealthCheck(context.Context) error { return f.err }

type testEnv struct {
	repo      *memRepo
	completer *fakeCompleter
	pinger    *fakePinger
	handler   http.Handler
}

func newTestEnv() *testEnv {
	repo := newMemRepo()
	completer := &fakeCompleter{reply: domchat.NewReply("stub answer", "test-model", 12, 7)}
	pinger := &fakePinger{}

	factory := retrievaluc.NewFactory(repo)
	docSvc := documentuc.New(repo)
	chatSvc := chatuc.New(completer, func(scope domain.TenantScope) chatuc.Retriever {
		return factory.Scoped(scope)
	}, 5)
	healthSvc := healthuc.New(pinger, &fakeLLMChecker{})

	server := NewServer(docSvc, factory, chatSvc, healthSvc, zap.NewNop())

	r := chirouter.NewRouter()
	server.Routes(r)

	return &testEnv{repo: repo, completer: completer, pinger: pinger, handler: r}
}
