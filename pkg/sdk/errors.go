package ragcore

import "github.com/helio-cloud/ragcore/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrDocumentNotFound = domain.ErrDocumentNotFound
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrInvalidDocument  = domain.ErrInvalidDocument
	ErrInvalidRequest   = domain.ErrInvalidRequest
	ErrLLMProviderError = domain.ErrLLMProviderError
)
