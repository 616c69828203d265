package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
	"github.com/custodia-labs/brdify/internal/core/ports/driving"
	"github.com/custodia-labs/brdify/internal/logger"
	"github.com/custodia-labs/brdify/internal/traceability"
)

// Ensure BrdService implements the interface.
var _ driving.BrdService = (*BrdService)(nil)

// BrdService turns source text into BRD documents and keeps their
// traceability matrix consistent across edits.
type BrdService struct {
	store       driven.BrdStore
	extractor   driven.Extractor
	pipeline    driven.PostProcessorPipeline
	normalisers driven.NormaliserRegistry
	renderers   driven.RendererRegistry
	now         func() time.Time
	readFile    func(string) ([]byte, error)
}

// NewBrdService creates a new BRD service. normalisers and renderers may
// be nil; file uploads and export are then unavailable.
func NewBrdService(
	store driven.BrdStore,
	extractor driven.Extractor,
	pipeline driven.PostProcessorPipeline,
	normalisers driven.NormaliserRegistry,
	renderers driven.RendererRegistry,
) *BrdService {
	return &BrdService{
		store:       store,
		extractor:   extractor,
		pipeline:    pipeline,
		normalisers: normalisers,
		renderers:   renderers,
		now:         time.Now,
		readFile:    os.ReadFile,
	}
}

// Create runs the extraction pipeline over the request text and stores the
// result. Chunks are extracted one at a time, in order. Any failure aborts
// the whole document; if it was already stored it is deleted again.
func (s *BrdService) Create(ctx context.Context, req driving.CreateRequest) (*domain.BrdDocument, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	if req.SourceType == "" {
		req.SourceType = domain.SourceTypeTextInput
	}
	if !req.SourceType.IsValid() {
		return nil, fmt.Errorf("%w: source type %q", domain.ErrInvalidInput, req.SourceType)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, domain.ErrLLMUnavailable)
	}
	defer logger.Timed("create document")()

	src := domain.SourceData{
		Content:    req.Content,
		SourceType: req.SourceType,
		URI:        req.URI,
		UploadedAt: s.now(),
	}

	logger.Section("Chunking")
	chunks, err := s.pipeline.Process(ctx, &src)
	if err != nil {
		return nil, fmt.Errorf("prepare source: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no text left after cleaning", domain.ErrInvalidInput)
	}
	logger.Info("%d chunk(s) from %d chars", len(chunks), len(src.Normalised))

	logger.Section("Extraction")
	results := make([]domain.ExtractionResult, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := s.extractor.Extract(ctx, chunk.Content, domain.ProfileRequirements)
		if err != nil {
			return nil, fmt.Errorf("extract chunk %d of %d: %w", i+1, len(chunks), err)
		}
		res, err := traceability.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		logger.Debug("chunk %d: %d requirements, %d decisions, %d risks, %d milestones",
			i+1, len(res.Requirements), len(res.Decisions), len(res.Risks), len(res.Timeline))
		results[i] = res
	}

	summary, err := s.extractor.Extract(ctx, src.Normalised, domain.ProfileSummary)
	if err != nil {
		return nil, fmt.Errorf("executive summary: %w", err)
	}

	logger.Section("Traceability")
	candidates, ledger, err := traceability.Aggregate(chunks, results)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	doc := candidates.Document()
	doc.Title = strings.TrimSpace(req.Title)
	if doc.Title == "" {
		doc.Title = "BRD from " + src.SourceType.String()
	}
	doc.Status = domain.StatusDraft
	doc.Summary = summary
	doc.Source = src

	saved, err := s.store.Save(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	final, err := s.link(ctx, doc, saved, ledger)
	if err != nil {
		s.discard(ctx, saved.ID)
		return nil, err
	}

	logger.Info("created %s: %d requirements traced", final.ID, len(final.RTM))
	return final, nil
}

// link builds and stores the RTM of a freshly saved document.
func (s *BrdService) link(
	ctx context.Context,
	submitted, saved *domain.BrdDocument,
	ledger *traceability.Ledger,
) (*domain.BrdDocument, error) {
	if err := traceability.VerifyIdentity(submitted, saved); err != nil {
		return nil, err
	}
	rtm, err := traceability.Link(saved, ledger)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}
	saved.RTM = rtm
	if err := saved.Validate(); err != nil {
		return nil, err
	}
	final, err := s.store.Save(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("save rtm: %w", err)
	}
	return final, nil
}

// discard removes a document that failed after its first save. It runs
// even if ctx was cancelled.
func (s *BrdService) discard(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("could not remove partial document %s: %v", id, err)
	}
}

// CreateFromFile reads and normalises a file, then runs Create. An empty
// title keeps the default.
func (s *BrdService) CreateFromFile(ctx context.Context, path, title string) (*domain.BrdDocument, error) {
	if s.normalisers == nil {
		return nil, fmt.Errorf("%w: no normalisers configured", domain.ErrNotImplemented)
	}

	mimeType := s.normalisers.DetectMIMEType(path)
	if mimeType == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}

	data, err := s.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	res, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", path, err)
	}
	logger.Debug("normalised %s (%s): %d chars", path, mimeType, len(res.Content))

	return s.Create(ctx, driving.CreateRequest{
		Content:    res.Content,
		SourceType: domain.SourceTypeForPath(path),
		URI:        path,
		Title:      title,
	})
}

// Get retrieves a document by ID.
func (s *BrdService) Get(ctx context.Context, id string) (*domain.BrdDocument, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// List returns summaries of all documents, newest first.
func (s *BrdService) List(ctx context.Context) ([]domain.BrdSummary, error) {
	return s.store.List(ctx)
}

// Delete removes a document.
func (s *BrdService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// RTM returns the traceability view of a document.
func (s *BrdService) RTM(ctx context.Context, id string) ([]driving.RtmRow, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	traces := doc.Traces()
	rows := make([]driving.RtmRow, 0, len(traces))
	for _, t := range traces {
		row := driving.RtmRow{
			RequirementKey: t.Requirement.Key,
			Requirement:    t.Requirement.Description,
			SourceChunk:    t.SourceChunk,
		}
		if t.Decision != nil {
			row.DecisionKey, row.Decision = t.Decision.Key, t.Decision.Description
		}
		if t.Risk != nil {
			row.RiskKey, row.Risk = t.Risk.Key, t.Risk.Description
		}
		if t.Timeline != nil {
			row.TimelineKey, row.Milestone = t.Timeline.Key, t.Timeline.Milestone
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Update replaces the entity lists of a document and reconciles its RTM.
// If anything fails after the replacement was stored, the previous version
// is stored again.
func (s *BrdService) Update(ctx context.Context, id string, upd driving.BrdUpdate) (*domain.BrdDocument, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	replacement, err := applyUpdate(old, upd)
	if err != nil {
		return nil, err
	}
	if err := traceability.AssignKeys(old, replacement); err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, replacement)
	if err != nil {
		return nil, fmt.Errorf("save edit: %w", err)
	}

	final, err := s.reconcile(ctx, old, replacement, saved)
	if err != nil {
		if _, rerr := s.store.Save(context.WithoutCancel(ctx), old); rerr != nil {
			logger.Warn("could not restore %s after failed edit: %v", id, rerr)
		}
		return nil, err
	}

	logger.Info("updated %s: %d of %d requirements traced", final.ID, len(final.RTM), len(final.Requirements))
	return final, nil
}

func (s *BrdService) reconcile(ctx context.Context, old, submitted, saved *domain.BrdDocument) (*domain.BrdDocument, error) {
	if err := traceability.VerifyIdentity(submitted, saved); err != nil {
		return nil, err
	}
	saved.RTM = traceability.Reconcile(old, saved)
	if err := saved.ValidateReferences(); err != nil {
		return nil, err
	}
	final, err := s.store.Save(ctx, saved)
	if err != nil {
		return nil, fmt.Errorf("save rtm: %w", err)
	}
	return final, nil
}

// applyUpdate builds the replacement document. Submitted IDs are dropped so
// the store assigns fresh ones; keys are kept for reconciliation.
func applyUpdate(old *domain.BrdDocument, upd driving.BrdUpdate) (*domain.BrdDocument, error) {
	doc := old.Clone()
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: empty title", domain.ErrInvalidInput)
		}
		doc.Title = title
	}
	if upd.Summary != nil {
		doc.Summary = *upd.Summary
	}
	doc.Status = domain.StatusEdited
	doc.RTM = nil

	doc.Requirements = append([]domain.Requirement(nil), upd.Requirements...)
	for i := range doc.Requirements {
		doc.Requirements[i].ID = ""
		if strings.TrimSpace(doc.Requirements[i].Description) == "" {
			return nil, fmt.Errorf("%w: requirement %d has no description", domain.ErrInvalidInput, i)
		}
	}
	doc.Decisions = append([]domain.Decision(nil), upd.Decisions...)
	for i := range doc.Decisions {
		doc.Decisions[i].ID = ""
	}
	doc.Stakeholders = append([]domain.Stakeholder(nil), upd.Stakeholders...)
	for i := range doc.Stakeholders {
		doc.Stakeholders[i].ID = ""
	}
	doc.Risks = append([]domain.Risk(nil), upd.Risks...)
	for i := range doc.Risks {
		doc.Risks[i].ID = ""
	}
	doc.Timeline = append([]domain.TimelineEntry(nil), upd.Timeline...)
	for i := range doc.Timeline {
		doc.Timeline[i].ID = ""
	}
	return doc, nil
}

// Render writes the document in the named format to w.
func (s *BrdService) Render(ctx context.Context, id, format string, w io.Writer) error {
	if s.renderers == nil {
		return fmt.Errorf("%w: no renderers configured", domain.ErrNotImplemented)
	}
	renderer, err := s.renderers.Get(format)
	if err != nil {
		return err
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := renderer.Render(ctx, doc, w); err != nil {
		return fmt.Errorf("render %s: %w", renderer.Format(), err)
	}
	return nil
}

// Formats returns the supported export formats.
func (s *BrdService) Formats() []string {
	if s.renderers == nil {
		return nil
	}
	return s.renderers.Formats()
}
