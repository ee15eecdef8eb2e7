package chi

import "time"

// ErrorResponseCode is a machine-readable error category on the wire.
type ErrorResponseCode string

const (
	ErrorCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorCodeNotFound         ErrorResponseCode = "not_found"
	ErrorCodeDocumentNotFound ErrorResponseCode = "document_not_found"
	ErrorCodeAlreadyExists    ErrorResponseCode = "document_already_exists"
	ErrorCodeLLMProviderError ErrorResponseCode = "llm_provider_error"
	ErrorCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// CreateDocumentRequest is the body of POST /v1/orgs/{org}/documents.
// An empty ID gets one generated by the server.
type CreateDocumentRequest struct {
	ID      string   `json:"id,omitempty"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// UpdateDocumentRequest is the body of PUT /v1/orgs/{org}/documents/{id}.
type UpdateDocumentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// DocumentResponse is a stored document on the wire.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	Org       string    `json:"org,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentListResponse is a cursor page of documents.
type DocumentListResponse struct {
	Items      []DocumentResponse `json:"items"`
	HasMore    bool               `json:"has_more"`
	NextCursor *string            `json:"next_cursor,omitempty"`
}

// InspectResponse exposes the retrieval pipeline for one query:
// the extracted keywords, the ranked documents, and the assembled
// context block exactly as a chat prompt would carry it.
type InspectResponse struct {
	Keywords  []string           `json:"keywords"`
	Documents []DocumentResponse `json:"documents"`
	Context   string             `json:"context"`
}

// ChatMessage is one conversation turn on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /v1/orgs/{org}/chat.
type ChatRequest struct {
	Query   string        `json:"query"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatSource identifies a document that grounded a chat reply.
type ChatSource struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// ChatUsage reports token consumption of one completion.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// ChatResponse is the completed chat turn.
type ChatResponse struct {
	Answer  string       `json:"answer"`
	Model   string       `json:"model,omitempty"`
	Sources []ChatSource `json:"sources,omitempty"`
	Usage   ChatUsage    `json:"usage"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
