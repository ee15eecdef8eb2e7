// Package chi provides the REST transport over the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helio-cloud/ragcore/internal/domain"
	domchat "github.com/helio-cloud/ragcore/internal/domain/chat"
	domdoc "github.com/helio-cloud/ragcore/internal/domain/document"
	chatuc "github.com/helio-cloud/ragcore/internal/usecase/chat"
	documentuc "github.com/helio-cloud/ragcore/internal/usecase/document"
	healthuc "github.com/helio-cloud/ragcore/internal/usecase/health"
	retrievaluc "github.com/helio-cloud/ragcore/internal/usecase/retrieval"
)

// defaultInspectLimit bounds GET /retrieval/inspect when no limit is given.
const defaultInspectLimit = 5

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the document, retrieval, chat, and health services
// over HTTP.
type Server struct {
	documents     *documentuc.Service
	retrieval     *retrievaluc.Factory
	chat          *chatuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	documents *documentuc.Service,
	retrieval *retrievaluc.Factory,
	chat *chatuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		documents: documents,
		retrieval: retrieval,
		chat:      chat,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, ErrorCodeLLMProviderError),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1/orgs/{org}", func(r chi.Router) {
		r.Post("/documents", s.CreateDocument)
		r.Get("/documents", s.ListDocuments)
		r.Get("/documents/{id}", s.GetDocument)
		r.Put("/documents/{id}", s.UpdateDocument)
		r.Delete("/documents/{id}", s.DeleteDocument)
		r.Get("/retrieval/inspect", s.InspectRetrieval)
		r.Post("/chat", s.Chat)
	})
}

// CreateDocument handles POST /v1/orgs/{org}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Create(r.Context(), org, req.ID, req.Title, req.Content, req.Tags)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, documentToAPI(doc))
}

// ListDocuments handles GET /v1/orgs/{org}/documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	var cursor *string
	if err := runtime.BindQueryParameter("form", true, false, "cursor", r.URL.Query(), &cursor); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid cursor parameter")
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid limit parameter")
		return
	}

	var cursorVal string
	if cursor != nil {
		cursorVal = *cursor
	}
	var limitVal int
	if limit != nil {
		limitVal = *limit
	}

	docs, nextCursor, err := s.documents.List(r.Context(), org, cursorVal, limitVal)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = documentToAPI(docs[i])
	}

	resp := DocumentListResponse{Items: items, HasMore: nextCursor != ""}
	if nextCursor != "" {
		resp.NextCursor = &nextCursor
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDocument handles GET /v1/orgs/{org}/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(r.Context(), org, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToAPI(doc))
}

// UpdateDocument handles PUT /v1/orgs/{org}/documents/{id}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	id := chi.URLParam(r, "id")

	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc, err := s.documents.Update(r.Context(), org, id, req.Title, req.Content, req.Tags)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentToAPI(doc))
}

// DeleteDocument handles DELETE /v1/orgs/{org}/documents/{id}.
// The default is a soft delete; ?purge=true removes the key entirely.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	id := chi.URLParam(r, "id")

	var purge *bool
	if err := runtime.BindQueryParameter("form", true, false, "purge", r.URL.Query(), &purge); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid purge parameter")
		return
	}

	var err error
	if purge != nil && *purge {
		err = s.documents.Purge(r.Context(), org, id)
	} else {
		err = s.documents.Delete(r.Context(), org, id)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// InspectRetrieval handles GET /v1/orgs/{org}/retrieval/inspect.
func (s *Server) InspectRetrieval(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	var query string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Query parameter q is required")
		return
	}

	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid limit parameter")
		return
	}
	limitVal := defaultInspectLimit
	if limit != nil && *limit > 0 {
		limitVal = *limit
	}

	engine := s.retrieval.Scoped(domain.ScopeTo(org))
	insp := engine.Inspect(r.Context(), query, limitVal)

	docs := make([]DocumentResponse, len(insp.Documents))
	for i := range insp.Documents {
		docs[i] = documentToAPI(insp.Documents[i])
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Keywords:  insp.Keywords,
		Documents: docs,
		Context:   insp.Context,
	})
}

// Chat handles POST /v1/orgs/{org}/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	history := make([]domchat.Message, 0, len(req.History))
	for _, m := range req.History {
		msg, err := domchat.NewMessage(domchat.Role(m.Role), m.Content)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Invalid history message: "+err.Error())
			return
		}
		history = append(history, msg)
	}

	result, err := s.chat.Respond(r.Context(), org, req.Query, history)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]ChatSource, len(result.Sources))
	for i := range result.Sources {
		sources[i] = ChatSource{
			ID:    result.Sources[i].ID(),
			Title: result.Sources[i].Title(),
			Tags:  result.Sources[i].Tags(),
		}
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:  result.Reply.Content(),
		Model:   result.Reply.Model(),
		Sources: sources,
		Usage: ChatUsage{
			PromptTokens:     result.Reply.PromptTokens(),
			CompletionTokens: result.Reply.CompletionTokens(),
		},
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func documentToAPI(doc domdoc.Document) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID(),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Tags:      doc.Tags(),
		Org:       doc.OrganizationID(),
		Active:    doc.IsActive(),
		CreatedAt: doc.CreatedAt(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidDocument,
		domain.ErrInvalidRequest,
		domain.ErrLLMProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
