package domain

// SourceChunk is a contiguous slice of the normalised source text.
// Positions are zero-based, contiguous and strictly increasing within one
// document; Content always equals text[Start:End].
type SourceChunk struct {
	// Position is the zero-based index of the chunk in the document.
	Position int

	// Start is the byte offset of the chunk in the normalised text.
	Start int

	// End is the exclusive byte offset of the chunk end.
	End int

	// Content is the chunk text.
	Content string
}

// Len returns the chunk length in bytes.
func (c SourceChunk) Len() int {
	return c.End - c.Start
}
