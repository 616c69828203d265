package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the Word document MIME type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts paragraph and table text from a DOCX archive.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, err
	}
	content, err := documentText(body)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	title := coreTitle(reader)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	metadata := normalisers.Metadata(raw.Metadata, raw.MIMEType)
	metadata["format"] = "docx"

	return &driven.NormaliseResult{
		Title:    title,
		Content:  content,
		Metadata: metadata,
	}, nil
}

// readPart returns the bytes of a named archive member, or nil when absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		return content, nil
	}
	return nil, nil
}

// documentText walks word/document.xml. Paragraphs become lines, table
// cells within a row are joined with " | ", tabs and breaks are kept.
func documentText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	dec := xml.NewDecoder(bytes.NewReader(content))
	var (
		lines  []string
		para   strings.Builder
		cells  []string
		inText bool
		depth  int // table nesting
	)

	flushPara := func() {
		text := strings.TrimSpace(para.String())
		para.Reset()
		if depth > 0 {
			if text != "" {
				cells = append(cells, text)
			}
			return
		}
		lines = append(lines, text)
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			case "tbl":
				depth++
			case "tr":
				cells = nil
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flushPara()
			case "tr":
				if len(cells) > 0 {
					lines = append(lines, strings.Join(cells, " | "))
				}
				cells = nil
			case "tbl":
				depth--
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// coreTitle reads the title from docProps/core.xml.
func coreTitle(reader *zip.Reader) string {
	content, err := readPart(reader, "docProps/core.xml")
	if err != nil || content == nil {
		return ""
	}
	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
