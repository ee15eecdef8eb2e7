package ragcore

import "context"

// Completer generates an assistant reply for a conversation.
// Required for chat; document management and retrieval work without it.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (Reply, error)
}
