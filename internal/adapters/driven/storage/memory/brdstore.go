package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/brdify/internal/adapters/driven/storage"
	"github.com/custodia-labs/brdify/internal/core/domain"
	"github.com/custodia-labs/brdify/internal/core/ports/driven"
)

// Ensure BrdStore implements the interface.
var _ driven.BrdStore = (*BrdStore)(nil)

// BrdStore is an in-memory implementation of driven.BrdStore for testing.
type BrdStore struct {
	mu   sync.RWMutex
	docs map[string]*domain.BrdDocument
	now  func() time.Time
}

// NewBrdStore creates a new in-memory BRD store.
func NewBrdStore() *BrdStore {
	return &BrdStore{
		docs: make(map[string]*domain.BrdDocument),
		now:  time.Now,
	}
}

// Save assigns missing identifiers and stores a copy of the document.
func (s *BrdStore) Save(ctx context.Context, doc *domain.BrdDocument) (*domain.BrdDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("save brd: %w", domain.ErrInvalidInput)
	}

	stored := doc.Clone()
	storage.AssignIDs(stored, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.docs[stored.ID]; ok && !prev.CreatedAt.IsZero() {
		stored.CreatedAt = prev.CreatedAt
	}
	s.docs[stored.ID] = stored
	return stored.Clone(), nil
}

// Get retrieves a document by ID.
func (s *BrdStore) Get(ctx context.Context, id string) (*domain.BrdDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

// List returns summaries of all documents, newest first.
func (s *BrdStore) List(ctx context.Context) ([]domain.BrdSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.BrdSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		result = append(result, doc.Summarise())
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a document by ID.
func (s *BrdStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}
