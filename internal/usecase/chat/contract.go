package chat

import (
	"context"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

// Completer generates an assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []domchat.Message) (domchat.Reply, error)
}

// Retriever is the tenant-scoped retrieval surface the chat flow consumes.
type Retriever interface {
	RetrieveRelevantDocuments(ctx context.Context, query string, limit int) []domdoc.Document
	ContextBlock(docs []domdoc.Document) string
}

// ScopedRetriever builds a retriever bound to one tenant scope.
type ScopedRetriever func(scope domain.TenantScope) Retriever
