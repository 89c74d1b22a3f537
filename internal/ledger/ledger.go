package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// appendAttempts bounds the internal retry loop around the
// read-tip/compute/append critical section. After this many tip conflicts
// the error is surfaced to the caller.
const appendAttempts = 3

var (
	// ErrChainConflict is returned when concurrent appends kept moving the
	// tip for every internal retry attempt.
	ErrChainConflict = errors.New("ledger append conflict: tip moved concurrently")

	// ErrInvalidLimit is returned by ReadLatest for a non-positive limit.
	// A non-positive limit is treated as a caller bug rather than an empty
	// read, so it fails loudly.
	ErrInvalidLimit = errors.New("ledger read limit must be positive")
)

// ChainBreakError reports the first entry whose stored hash or predecessor
// linkage does not match recomputation.
type ChainBreakError struct {
	Sequence int64
}

func (e *ChainBreakError) Error() string {
	return fmt.Sprintf("ledger chain broken at sequence %d", e.Sequence)
}

// Ledger owns the append-only, hash-chained audit log. All writes go through
// Append; entries are never updated or deleted. The store handle is owned
// explicitly by the instance, never shared ambient state.
type Ledger struct {
	mu    sync.Mutex
	store ports.LedgerStore
	now   func() time.Time
}

// New creates a ledger over the given storage backend
func New(store ports.LedgerStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Append writes an opaque payload as the next chain entry and returns its
// hash. In-process callers are serialized by a mutex, so concurrent appends
// from request handlers never fork the chain. The store-level tip check still
// guards against external writers on a shared backing store; on a tip
// conflict the read-tip/append sequence is retried up to appendAttempts
// times, then ErrChainConflict is surfaced. Storage faults are returned
// immediately and leave the ledger unchanged.
func (l *Ledger) Append(ctx context.Context, payload []byte) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; attempt < appendAttempts; attempt++ {
		tip, ok, err := l.store.Tip(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to read ledger tip: %w", err)
		}

		var sequence int64 = 1
		prevHash := ""
		if ok {
			sequence = tip.Sequence + 1
			prevHash = tip.Hash
		}

		ts := l.now().UnixNano()
		entry := domain.LedgerEntry{
			Sequence:  sequence,
			Timestamp: ts,
			Payload:   payload,
			PrevHash:  prevHash,
			Hash:      Link(ts, payload, prevHash),
		}

		err = l.store.AppendIfTip(ctx, prevHash, entry)
		if err == nil {
			return entry.Hash, nil
		}
		if errors.Is(err, ports.ErrTipConflict) {
			continue
		}
		return "", fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return "", ErrChainConflict
}

// ReadLatest returns up to limit entries ordered newest first
func (l *Ledger) ReadLatest(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	entries, err := l.store.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}
	return entries, nil
}

// Verify re-derives the whole chain from genesis to tip
func (l *Ledger) Verify(ctx context.Context) error {
	tip, ok, err := l.store.Tip(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger tip: %w", err)
	}
	if !ok {
		return nil
	}
	return l.VerifyRange(ctx, 1, tip.Sequence)
}

// VerifyRange recomputes each entry's hash from its stored fields and checks
// predecessor linkage for from <= sequence <= to. It returns a
// *ChainBreakError naming the first mismatched sequence, or nil when the
// range is intact.
func (l *Ledger) VerifyRange(ctx context.Context, from, to int64) error {
	if from < 1 || to < from {
		return fmt.Errorf("invalid verify range [%d, %d]", from, to)
	}

	entries, err := l.store.ListRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to read ledger range: %w", err)
	}

	prevHash := ""
	if from > 1 {
		prev, err := l.store.ListRange(ctx, from-1, from-1)
		if err != nil {
			return fmt.Errorf("failed to read ledger predecessor: %w", err)
		}
		if len(prev) != 1 {
			return &ChainBreakError{Sequence: from}
		}
		prevHash = prev[0].Hash
	}

	want := from
	for _, e := range entries {
		if e.Sequence != want {
			return &ChainBreakError{Sequence: want}
		}
		if e.PrevHash != prevHash {
			return &ChainBreakError{Sequence: e.Sequence}
		}
		if Link(e.Timestamp, e.Payload, e.PrevHash) != e.Hash {
			return &ChainBreakError{Sequence: e.Sequence}
		}
		prevHash = e.Hash
		want++
	}
	if want != to+1 {
		return &ChainBreakError{Sequence: want}
	}
	return nil
}
