package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
)

const baseSystemPrompt = "You are a helpful assistant for this organization's knowledge base."

// Service orchestrates one chat turn: retrieve relevant documents,
// inject them into the prompt, and complete through the LLM provider.
// Retrieval problems never fail the turn; the assistant answers from
// general capability with zero injected context instead.
type Service struct {
	completer Completer
	scoped    ScopedRetriever
	docLimit  int
	logger    *zap.Logger
}

// Result is one completed chat turn with its supporting documents.
type Result struct {
	Reply   domchat.Reply
	Sources []domdoc.Document
}

// New creates a chat service. docLimit bounds the documents injected
// into a single prompt.
func New(completer Completer, scoped ScopedRetriever, docLimit int) *Service {
	if docLimit <= 0 {
		docLimit = 5
	}
	return &Service{
		completer: completer,
		scoped:    scoped,
		docLimit:  docLimit,
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger. Returns the service for chaining.
func (s *Service) WithLogger(logger *zap.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Respond answers a user query for one tenant, grounding the reply in
// retrieved knowledge base documents when any match.
func (s *Service) Respond(
	ctx context.Context, orgID, query string, history []domchat.Message,
) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, fmt.Errorf("%w: empty query", domain.ErrInvalidRequest)
	}

	engine := s.scoped(domain.ScopeTo(orgID))
	docs := engine.RetrieveRelevantDocuments(ctx, query, s.docLimit)
	contextBlock := engine.ContextBlock(docs)

	messages := buildMessages(contextBlock, history, query)

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return Result{}, fmt.Errorf("complete chat: %w", err)
	}

	s.logger.Debug("Chat turn completed",
		zap.String("org", orgID),
		zap.Int("sources", len(docs)),
		zap.Int("history", len(history)),
	)

	return Result{Reply: reply, Sources: docs}, nil
}

// buildMessages assembles the prompt: system instruction with the
// optional context block, prior history, then the user query.
func buildMessages(
	contextBlock string, history []domchat.Message, query string,
) []domchat.Message {
	system := baseSystemPrompt
	if contextBlock != "" {
		system = system + "\n\n" + contextBlock
	}

	messages := make([]domchat.Message, 0, len(history)+2)
	messages = append(messages, domchat.Reconstruct(domchat.RoleSystem, system))
	for _, m := range history {
		if m.Role() == domchat.RoleSystem {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, domchat.Reconstruct(domchat.RoleUser, query))
	return messages
}
