package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidKind      = errors.New("invalid document kind")
	ErrInvalidPayload   = errors.New("invalid document payload")

	// Cache errors
	ErrRecordNotFound = errors.New("cache record not found")
	ErrLocalStore     = errors.New("local store failure")

	// Generation errors
	ErrEmptyContent     = errors.New("no content generated")
	ErrInvalidContent   = errors.New("generated content does not match the expected structure")
	ErrGenerationFailed = errors.New("generation failed")

	// Auth errors
	ErrUnauthenticated = errors.New("caller is not authenticated")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
