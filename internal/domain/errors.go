package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an unknown document id.
	ErrNotFound = errors.New("documento no encontrado")
	// ErrInvalidRequest indicates a malformed or incomplete request.
	ErrInvalidRequest = errors.New("invalid request")
)

// ExtractionError indicates the uploaded bytes are not a readable PDF.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("pdf extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// UpstreamServiceError indicates a failure in the embedding or
// chat-completion provider, or in the vector database.
type UpstreamServiceError struct {
	Service string
	Err     error
}

func (e *UpstreamServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }
