package proposal

import "github.com/equilix/equilix/internal/domain"

// Fallback returns the fixed minimal proposal set substituted whenever the
// configured proposal source fails or is unconfigured: one positive and one
// negative scenario. Callers get these instead of an error.
func Fallback() []domain.TestProposal {
	return []domain.TestProposal{
		{
			Title: "Positive - happy path",
			Steps: []string{
				"Set up valid user with required roles",
				"Perform action per requirement",
				"Check success response and audit log",
			},
		},
		{
			Title: "Negative - invalid input",
			Steps: []string{
				"Use malformed input",
				"Verify rejection with proper error code",
				"Ensure no data leakage",
			},
		},
	}
}
