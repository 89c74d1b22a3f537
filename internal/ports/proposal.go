package ports

import (
	"context"

	"github.com/equilix/equilix/internal/domain"
)

// ProposalSource defines the interchangeable capability that supplies
// candidate test cases for a requirement. Implementations may call an LLM;
// callers must treat any failure as recoverable and substitute the fixed
// fallback proposals instead of surfacing the error.
type ProposalSource interface {
	// Propose returns candidate test cases for the requirement text.
	Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error)
}

// ProposalConfig represents proposal source configuration
type ProposalConfig struct {
	Provider    string
	APIKey      string
	Model       string
	TimeoutMs   int
	EnableCache bool
	CacheTTLMin int
}
