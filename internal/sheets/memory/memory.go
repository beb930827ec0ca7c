package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gustavotrrsenac/datefy/internal/core"
)

// Store is an in-memory LedgerExporter used in tests and when no
// spreadsheet is configured.
type Store struct {
	mu    sync.Mutex
	items []core.Financa
}

func New() *Store {
	return &Store{}
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, f core.Financa) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, f)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Items returns a copy of everything appended so far.
func (s *Store) Items() []core.Financa {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Financa, len(s.items))
	copy(out, s.items)
	return out
}
