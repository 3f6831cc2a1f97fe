package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeExtractionFailed = "EXTRACTION_FAILED"
	ErrCodeUnavailable      = "BACKEND_UNAVAILABLE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrNotPDF               = NewDomainError(ErrCodeValidation, "only PDF files are supported")

	// ErrExtractionFailed covers unreadable or corrupt PDF input. An empty
	// but readable document is not an error; ingestion reports zero chunks.
	ErrExtractionFailed = NewDomainError(ErrCodeExtractionFailed, "failed to extract text from document")

	ErrEmbeddingUnavailable   = NewDomainError(ErrCodeUnavailable, "embedding backend unavailable")
	ErrVectorStoreUnavailable = NewDomainError(ErrCodeUnavailable, "vector store unavailable")
	ErrGenerationFailed       = NewDomainError(ErrCodeUnavailable, "generation backend failed")
)
