package ragcore

import (
	"context"
	"fmt"
	"time"

	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
)

// ChatService answers tenant queries grounded in retrieved documents.
type ChatService struct {
	org string
	svc chatUseCase
	obs *observer
}

// Respond completes one chat turn. History carries prior user and
// assistant messages; system entries are dropped.
func (s *ChatService) Respond(
	ctx context.Context, query string, history []Message,
) (_ ChatResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("chat.respond", start, err) }()

	msgs := make([]domchat.Message, len(history))
	for i, m := range history {
		msgs[i], err = domchat.NewMessage(domchat.Role(m.Role), m.Content)
		if err != nil {
			return ChatResult{}, fmt.Errorf("history message %d: %w", i, err)
		}
	}

	result, err := s.svc.Respond(ctx, s.org, query, msgs)
	if err != nil {
		return ChatResult{}, fmt.Errorf("chat: %w", err)
	}

	sources := make([]Document, len(result.Sources))
	for i, d := range result.Sources {
		sources[i] = fromInternalDocument(d)
	}
	return ChatResult{
		Reply: Reply{
			Content:          result.Reply.Content(),
			Model:            result.Reply.Model(),
			PromptTokens:     result.Reply.PromptTokens(),
			CompletionTokens: result.Reply.CompletionTokens(),
		},
		Sources: sources,
	}, nil
}
