package ragcore

import "time"

// Document is a knowledge base document for the public API.
type Document struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	Org       string
	Active    bool
	CreatedAt time.Time
}

// ListResult is a paginated list of documents.
type ListResult struct {
	Documents  []Document
	NextCursor string
}

// Inspection exposes the retrieval pipeline for one query.
type Inspection struct {
	Keywords  []string
	Documents []Document
	Context   string
}

// Message is one conversation turn.
type Message struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// Reply is an assistant completion.
type Reply struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// ChatResult is a completed chat turn with its supporting documents.
type ChatResult struct {
	Reply   Reply
	Sources []Document
}

// Weights is the relevance scoring weight table.
// Zero-valued fields keep the engine defaults.
type Weights struct {
	TitleExactQuery   int
	ContentExactQuery int
	TitleKeyword      int
	ContentKeyword    int
	TagKeyword        int
	BrevityBonus      int
	BrevityThreshold  int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}
