package ports

import (
	"context"
	"errors"

	"github.com/equilix/equilix/internal/domain"
)

// ErrTipConflict is returned by AppendIfTip when the chain tip moved between
// the caller reading it and the write landing. The ledger service retries the
// whole read-tip/append sequence a bounded number of times.
var ErrTipConflict = errors.New("ledger tip conflict")

// LedgerStore defines the ordered append-only storage backend for the ledger.
// Entries are keyed by sequence; AppendIfTip is the atomic
// insert-if-tip-matches operation that keeps concurrent appends from forking
// the chain.
type LedgerStore interface {
	// AppendIfTip inserts the entry only if prevHash still identifies the
	// current tip (empty string for an empty ledger). Returns ErrTipConflict
	// when another append won the race.
	AppendIfTip(ctx context.Context, prevHash string, entry domain.LedgerEntry) error

	// Tip returns the highest-sequence entry, or ok=false for an empty ledger.
	Tip(ctx context.Context) (domain.LedgerEntry, bool, error)

	// ListLatest returns up to limit entries ordered by descending sequence.
	ListLatest(ctx context.Context, limit int) ([]domain.LedgerEntry, error)

	// ListRange returns entries with from <= sequence <= to in ascending order.
	ListRange(ctx context.Context, from, to int64) ([]domain.LedgerEntry, error)
}
