package ledger

import (
	"context"
	"sync"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// InMemoryStore is a mutex-guarded LedgerStore used in tests and for
// single-process development runs.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []domain.LedgerEntry
}

// NewInMemoryStore creates an empty in-memory ledger store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) AppendIfTip(ctx context.Context, prevHash string, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip := ""
	if n := len(s.entries); n > 0 {
		tip = s.entries[n-1].Hash
	}
	if tip != prevHash {
		return ports.ErrTipConflict
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) Tip(ctx context.Context) (domain.LedgerEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	if n == 0 {
		return domain.LedgerEntry{}, false, nil
	}
	return s.entries[n-1], true, nil
}

func (s *InMemoryStore) ListLatest(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.LedgerEntry{}
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListRange(ctx context.Context, from, to int64) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.LedgerEntry{}
	for _, e := range s.entries {
		if e.Sequence >= from && e.Sequence <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

// Tamper overwrites a stored entry in place. Only tests use it, to check
// that verification detects mutation of written history.
func (s *InMemoryStore) Tamper(sequence int64, mutate func(*domain.LedgerEntry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Sequence == sequence {
			mutate(&s.entries[i])
			return true
		}
	}
	return false
}
