package domain

// LedgerEntry represents one immutable record in the append-only audit chain.
// Sequence numbers are gapless and start at 1; PrevHash of the genesis entry
// is the empty string. Payload is opaque to the ledger.
type LedgerEntry struct {
	Sequence  int64  `json:"sequence"`
	Timestamp int64  `json:"timestamp"` // unix nanoseconds at append time
	Payload   []byte `json:"payload"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
}

// AuditAction represents the structured payload the service writes to the
// ledger. The ledger itself never parses it; readers filter on ProjectID.
type AuditAction struct {
	Action    string `json:"action"`
	ProjectID string `json:"project_id"`
	TestID    string `json:"test_id,omitempty"`
	Approver  string `json:"approver,omitempty"`
	Count     int    `json:"count,omitempty"`
}
