package proposal

import (
	"github.com/equilix/equilix/internal/ports"
)

// New selects the proposal source for the configured provider. Unknown
// providers get the mock source; an "openai" provider without an API key is
// still constructed, and its call-time failure triggers the caller's
// fallback branch.
func New(config ports.ProposalConfig) ports.ProposalSource {
	switch config.Provider {
	case "openai":
		return NewOpenAISource(config)
	default:
		return NewMockSource()
	}
}
