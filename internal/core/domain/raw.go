package domain

// RawDocument represents opaque bytes read from a file or stdin.
// It is the input to normalisation.
type RawDocument struct {
	// URI is the original location (file path). Empty for stdin.
	URI string

	// MIMEType is the content type (e.g., "message/rfc822").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains reader-specific key-value pairs.
	Metadata map[string]any
}
