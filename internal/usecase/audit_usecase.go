package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ledger"
)

// ProjectLedgerEntry represents a ledger entry with its decoded action, as
// returned to audit readers
type ProjectLedgerEntry struct {
	Sequence  int64              `json:"sequence"`
	Timestamp int64              `json:"timestamp"`
	Action    domain.AuditAction `json:"action"`
	PrevHash  string             `json:"prev_hash"`
	Hash      string             `json:"hash"`
}

// VerifyResponse represents the outcome of a chain verification run
type VerifyResponse struct {
	Valid          bool  `json:"valid"`
	BrokenSequence int64 `json:"broken_sequence,omitempty"`
}

// AuditUseCase exposes ledger read-back and verification
type AuditUseCase struct {
	auditLedger *ledger.Ledger
}

// NewAuditUseCase creates a new audit use case
func NewAuditUseCase(auditLedger *ledger.Ledger) *AuditUseCase {
	return &AuditUseCase{auditLedger: auditLedger}
}

// GetProjectLedger reads the latest entries and keeps those whose payload
// names the project. The ledger itself performs no filtering; the project id
// is a correlation field the service embedded in the opaque payload at append
// time.
func (uc *AuditUseCase) GetProjectLedger(ctx context.Context, projectID string, limit int) ([]ProjectLedgerEntry, error) {
	entries, err := uc.auditLedger.ReadLatest(ctx, limit)
	if err != nil {
		return nil, err
	}

	filtered := []ProjectLedgerEntry{}
	for _, e := range entries {
		var action domain.AuditAction
		if err := json.Unmarshal(e.Payload, &action); err != nil {
			continue
		}
		if action.ProjectID != projectID {
			continue
		}
		filtered = append(filtered, ProjectLedgerEntry{
			Sequence:  e.Sequence,
			Timestamp: e.Timestamp,
			Action:    action,
			PrevHash:  e.PrevHash,
			Hash:      e.Hash,
		})
	}
	return filtered, nil
}

// VerifyChain re-derives the whole chain and reports the first broken
// sequence, if any
func (uc *AuditUseCase) VerifyChain(ctx context.Context) (*VerifyResponse, error) {
	err := uc.auditLedger.Verify(ctx)
	if err == nil {
		return &VerifyResponse{Valid: true}, nil
	}

	var broken *ledger.ChainBreakError
	if errors.As(err, &broken) {
		return &VerifyResponse{Valid: false, BrokenSequence: broken.Sequence}, nil
	}
	return nil, fmt.Errorf("chain verification failed: %w", err)
}
