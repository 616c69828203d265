package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceType classifies where the text of a BRD came from.
type SourceType string

// Known source types.
const (
	// SourceTypeTranscript is a plain-text meeting transcript upload.
	SourceTypeTranscript SourceType = "TRANSCRIPT"

	// SourceTypeDocument is any other uploaded file (email, docx, markdown).
	SourceTypeDocument SourceType = "DOCUMENT"

	// SourceTypeTextInput is raw text submitted directly.
	SourceTypeTextInput SourceType = "TEXT_INPUT"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeTranscript, SourceTypeDocument, SourceTypeTextInput:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// SourceTypeForPath infers the source type of an uploaded file.
// Plain-text files are treated as transcripts.
func SourceTypeForPath(path string) SourceType {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return SourceTypeTranscript
	}
	return SourceTypeDocument
}

// SourceData is the original upload a document was built from.
type SourceData struct {
	// ID is assigned by the store.
	ID string `json:"id,omitempty"`

	// Content is the text as submitted, after format normalisation.
	Content string `json:"content"`

	// Normalised is the cleaned text that was chunked.
	Normalised string `json:"normalised,omitempty"`

	// SourceType classifies the upload.
	SourceType SourceType `json:"sourceType"`

	// URI is the original location (file path), empty for raw text.
	URI string `json:"uri,omitempty"`

	// UploadedAt is when the source was received.
	UploadedAt time.Time `json:"uploadedAt"`
}
