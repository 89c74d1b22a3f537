package compliance

import "github.com/equilix/equilix/internal/domain"

// TriggerKind enumerates the topical triggers the rule catalog knows about.
// The enumeration is closed: adding a trigger means adding a constant and a
// catalog row, never touching engine logic.
type TriggerKind int

const (
	TriggerPHI TriggerKind = iota
	TriggerAudit
	TriggerEncryption
)

// Citation represents a regulatory clause reference
type Citation struct {
	Regulation string
	Clause     string
	Message    string
}

// Rule binds a trigger keyword to its citations and risk score increment
type Rule struct {
	Kind      TriggerKind
	Keyword   string
	Increment float64
	Citations []Citation
}

// catalog is the static, ordered rule set. Matching is case-insensitive
// substring search over the requirement text, in this order.
var catalog = []Rule{
	{
		Kind:      TriggerPHI,
		Keyword:   "phi",
		Increment: 0.4,
		Citations: []Citation{
			{Regulation: "HIPAA", Clause: "164.308", Message: "Access control for PHI required."},
		},
	},
	{
		Kind:      TriggerAudit,
		Keyword:   "audit",
		Increment: 0.3,
		Citations: []Citation{
			{Regulation: "21CFR", Clause: "11.10", Message: "Audit trails required."},
		},
	},
	{
		Kind:      TriggerEncryption,
		Keyword:   "encrypt",
		Increment: 0.25,
		Citations: []Citation{
			{Regulation: "GDPR", Clause: "32", Message: "Encryption required for personal data."},
		},
	},
}

// stepsAuditRule credits audit evidence found only in test steps. It carries
// its own message and a smaller increment than the requirement-level audit
// trigger.
var stepsAuditRule = Rule{
	Kind:      TriggerAudit,
	Keyword:   "audit",
	Increment: 0.1,
	Citations: []Citation{
		{Regulation: "21CFR", Clause: "11.10", Message: "Audit trail mentioned in steps."},
	},
}

func (c Citation) justification() domain.Justification {
	return domain.Justification{
		Regulation: c.Regulation,
		Clause:     c.Clause,
		Message:    c.Message,
	}
}
