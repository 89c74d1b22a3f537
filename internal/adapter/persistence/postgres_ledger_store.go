package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

// PostgresLedgerStore implements ports.LedgerStore on a ledger_entries table.
// The append is a single conditional INSERT: the row lands only when the
// supplied prev hash still identifies the tip, so two racing writers can
// never both extend the same predecessor. The primary key on sequence backs
// the same guarantee at the constraint level.
type PostgresLedgerStore struct {
	db *sql.DB
}

// NewPostgresLedgerStore creates a new PostgreSQL ledger store
func NewPostgresLedgerStore(db *sql.DB) ports.LedgerStore {
	return &PostgresLedgerStore{db: db}
}

func (s *PostgresLedgerStore) AppendIfTip(ctx context.Context, prevHash string, entry domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (sequence, ts, payload, prev_hash, hash)
		SELECT $1, $2, $3, $4, $5
		WHERE COALESCE(
			(SELECT hash FROM ledger_entries ORDER BY sequence DESC LIMIT 1), ''
		) = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		entry.Sequence,
		entry.Timestamp,
		entry.Payload,
		entry.PrevHash,
		entry.Hash,
	)
	if err != nil {
		// A unique violation on sequence means another writer landed first.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ports.ErrTipConflict
		}
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ports.ErrTipConflict
	}
	return nil
}

func (s *PostgresLedgerStore) Tip(ctx context.Context) (domain.LedgerEntry, bool, error) {
	query := `
		SELECT sequence, ts, payload, prev_hash, hash
		FROM ledger_entries
		ORDER BY sequence DESC
		LIMIT 1
	`

	var entry domain.LedgerEntry
	err := s.db.QueryRowContext(ctx, query).Scan(
		&entry.Sequence,
		&entry.Timestamp,
		&entry.Payload,
		&entry.PrevHash,
		&entry.Hash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.LedgerEntry{}, false, nil
		}
		return domain.LedgerEntry{}, false, fmt.Errorf("failed to read ledger tip: %w", err)
	}
	return entry, true, nil
}

func (s *PostgresLedgerStore) ListLatest(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, ts, payload, prev_hash, hash
		FROM ledger_entries
		ORDER BY sequence DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresLedgerStore) ListRange(ctx context.Context, from, to int64) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, ts, payload, prev_hash, hash
		FROM ledger_entries
		WHERE sequence BETWEEN $1 AND $2
		ORDER BY sequence ASC
	`

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger range: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.Sequence,
			&entry.Timestamp,
			&entry.Payload,
			&entry.PrevHash,
			&entry.Hash,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}
