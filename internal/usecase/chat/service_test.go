package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// --- Mocks ---

type mockCompleter struct {
	reply        domchat.Reply
	err          error
	lastMessages []domchat.Message
}

func (m *mockCompleter) Complete(
	_ context.Context, messages []domchat.Message,
) (domchat.Reply, error) {
	m.lastMessages = messages
	if m.err != nil {
		return domchat.Reply{}, m.err
	}
	return m.reply, nil
}

type mockRetriever struct {
	docs      []domdoc.Document
	context   string
	lastQuery string
	lastLimit int
}

func (m *mockRetriever) RetrieveRelevantDocuments(
	_ context.Context, query string, limit int,
) []domdoc.Document {
	m.lastQuery = query
	m.lastLimit = limit
	return m.docs
}

func (m *mockRetriever) ContextBlock(_ []domdoc.Document) string {
	return m.context
}

func testService(completer *mockCompleter, retriever *mockRetriever) (*Service, *[]domain.TenantScope) {
	var scopes []domain.TenantScope
	svc := New(completer, func(scope domain.TenantScope) Retriever {
		scopes = append(scopes, scope)
		return retriever
	}, 5)
	return svc, &scopes
}

func sourceDoc(id string) domdoc.Document {
	return domdoc.Reconstruct(
		id, "Title "+id, "content", nil, "acme", true,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)
}

// --- Tests ---

func TestRespond_InjectsContext(t *testing.T) {
	completer := &mockCompleter{reply: domchat.NewReply("answer", "gpt-4o-mini", 10, 5)}
	retriever := &mockRetriever{
		docs:    []domdoc.Document{sourceDoc("d1")},
		context: "[Document 1: Title d1]\ncontent",
	}
	svc, scopes := testService(completer, retriever)

	result, err := svc.Respond(context.Background(), "acme", "reset password", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Reply.Content() != "answer" {
		t.Errorf("unexpected reply: %s", result.Reply.Content())
	}
	if len(result.Sources) != 1 || result.Sources[0].ID() != "d1" {
		t.Errorf("unexpected sources: %v", result.Sources)
	}

	if len(*scopes) != 1 {
		t.Fatalf("expected 1 scoped engine, got %d", len(*scopes))
	}
	org, ok := (*scopes)[0].OrgID()
	if !ok || org != "acme" {
		t.Errorf("expected scope acme, got %q %v", org, ok)
	}

	system := completer.lastMessages[0]
	if system.Role() != domchat.RoleSystem {
		t.Fatalf("expected system message first, got %s", system.Role())
	}
	if !strings.Contains(system.Content(), "[Document 1: Title d1]") {
		t.Error("expected context block inside the system prompt")
	}

	last := completer.lastMessages[len(completer.lastMessages)-1]
	if last.Role() != domchat.RoleUser || last.Content() != "reset password" {
		t.Errorf("expected user query last, got %s %q", last.Role(), last.Content())
	}
}

func TestRespond_NoContextWhenNothingRetrieved(t *testing.T) {
	completer := &mockCompleter{reply: domchat.NewReply("answer", "m", 0, 0)}
	retriever := &mockRetriever{}
	svc, _ := testService(completer, retriever)

	result, err := svc.Respond(context.Background(), "acme", "random question words", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected no sources, got %v", result.Sources)
	}

	system := completer.lastMessages[0].Content()
	if system != baseSystemPrompt {
		t.Errorf("expected bare system prompt with zero context, got %q", system)
	}
}

func TestRespond_HistoryPreservedSystemDropped(t *testing.T) {
	completer := &mockCompleter{reply: domchat.NewReply("answer", "m", 0, 0)}
	retriever := &mockRetriever{}
	svc, _ := testService(completer, retriever)

	history := []domchat.Message{
		domchat.Reconstruct(domchat.RoleSystem, "stale system prompt"),
		domchat.Reconstruct(domchat.RoleUser, "earlier question"),
		domchat.Reconstruct(domchat.RoleAssistant, "earlier answer"),
	}

	if _, err := svc.Respond(context.Background(), "acme", "followup question", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := completer.lastMessages
	if len(msgs) != 4 {
		t.Fatalf("expected system + 2 history + user, got %d messages", len(msgs))
	}
	for _, m := range msgs[1 : len(msgs)-1] {
		if m.Role() == domchat.RoleSystem {
			t.Error("history system messages must be dropped")
		}
	}
	if msgs[1].Content() != "earlier question" || msgs[2].Content() != "earlier answer" {
		t.Error("history order not preserved")
	}
}

func TestRespond_EmptyQuery(t *testing.T) {
	svc, _ := testService(&mockCompleter{}, &mockRetriever{})

	_, err := svc.Respond(context.Background(), "acme", "   ", nil)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestRespond_CompleterErrorPropagates(t *testing.T) {
	completer := &mockCompleter{err: domain.ErrLLMProviderError}
	svc, _ := testService(completer, &mockRetriever{})

	_, err := svc.Respond(context.Background(), "acme", "question", nil)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestRespond_DocLimitPassedToRetriever(t *testing.T) {
	completer := &mockCompleter{reply: domchat.NewReply("a", "m", 0, 0)}
	retriever := &mockRetriever{}
	svc := New(completer, func(_ domain.TenantScope) Retriever { return retriever }, 3)

	if _, err := svc.Respond(context.Background(), "acme", "question", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if retriever.lastLimit != 3 {
		t.Errorf("expected doc limit 3, got %d", retriever.lastLimit)
	}
}
