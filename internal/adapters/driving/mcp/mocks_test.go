package mcp

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
)

// mockBrdService is a mock implementation of driving.BrdService.
type mockBrdService struct {
	doc       *domain.BrdDocument
	summaries []domain.BrdSummary
	rows      []driving.RtmRow
	err       error
	rtmErr    error

	lastCreate driving.CreateRequest
}

func (m *mockBrdService) Create(_ context.Context, req driving.CreateRequest) (*domain.BrdDocument, error) {
	m.lastCreate = req
	return m.doc, m.err
}

func (m *mockBrdService) CreateFromFile(_ context.Context, _, _ string) (*domain.BrdDocument, error) {
	return m.doc, m.err
}

func (m *mockBrdService) Get(_ context.Context, _ string) (*domain.BrdDocument, error) {
	return m.doc, m.err
}

func (m *mockBrdService) List(_ context.Context) ([]domain.BrdSummary, error) {
	return m.summaries, m.err
}

func (m *mockBrdService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockBrdService) RTM(_ context.Context, _ string) ([]driving.RtmRow, error) {
	return m.rows, m.rtmErr
}

func (m *mockBrdService) Update(_ context.Context, _ string, _ driving.BrdUpdate) (*domain.BrdDocument, error) {
	return m.doc, m.err
}

func (m *mockBrdService) Render(_ context.Context, id, format string, w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := fmt.Fprintf(w, "# %s (%s)\n", id, format)
	return err
}

func (m *mockBrdService) Formats() []string {
	return []string{"json", "markdown", "pdf"}
}
