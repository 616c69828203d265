package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown normaliser, renderer or source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Pipeline Errors.

	// ErrExtractorUnavailable indicates the extraction call failed or timed out.
	// The document being processed is abandoned.
	ErrExtractorUnavailable = errors.New("extractor unavailable")

	// ErrMalformedExtraction indicates extractor output could not be decoded
	// into the extraction schema. The whole document is aborted.
	ErrMalformedExtraction = errors.New("malformed extraction output")

	// ErrIdentityMismatch indicates the store returned entity lists whose
	// length, order or identifiers do not match what was submitted.
	ErrIdentityMismatch = errors.New("identity mismatch")

	// ErrDanglingReference indicates an RTM entry points at an entity that
	// is not part of the same document.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrRTMIncomplete indicates the RTM does not cover every requirement
	// exactly once.
	ErrRTMIncomplete = errors.New("rtm incomplete")
)
