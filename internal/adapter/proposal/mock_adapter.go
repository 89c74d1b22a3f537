package proposal

import (
	"context"
	"strings"

	"github.com/equilix/equilix/internal/domain"
)

// MockSource provides a deterministic proposal source for development and
// testing. Proposals are derived from keywords in the requirement text, so
// repeated calls with the same input return the same candidates.
type MockSource struct{}

// NewMockSource creates a new mock proposal source
func NewMockSource() *MockSource {
	return &MockSource{}
}

// Propose returns keyword-driven candidate test cases for the requirement
func (m *MockSource) Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error) {
	proposals := Fallback()

	text := strings.ToLower(requirementText)
	if strings.Contains(text, "phi") {
		proposals = append(proposals, domain.TestProposal{
			Title: "Access control - unauthorized PHI access",
			Steps: []string{
				"Authenticate as user without PHI access role",
				"Attempt to read a PHI record",
				"Verify access is denied and the attempt is logged",
			},
		})
	}
	if strings.Contains(text, "audit") {
		proposals = append(proposals, domain.TestProposal{
			Title: "Audit trail - change is recorded",
			Steps: []string{
				"Perform a tracked change",
				"Check audit log for a matching entry",
				"Verify entry captures actor and timestamp",
			},
		})
	}
	if strings.Contains(text, "encrypt") {
		proposals = append(proposals, domain.TestProposal{
			Title: "Encryption - data protected at rest",
			Steps: []string{
				"Store personal data through the application",
				"Inspect the backing store directly",
				"Verify stored values are not readable in plaintext",
			},
		})
	}

	return proposals, nil
}
