package domain

import (
	"time"

	"github.com/google/uuid"
)

// TestProposal represents a candidate test case produced by a proposal source,
// before compliance annotation
type TestProposal struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Justification represents a regulatory citation explaining why a clause
// applies to a requirement/test pair
type Justification struct {
	Regulation  string `json:"reg"`
	Clause      string `json:"clause"`
	Message     string `json:"msg"`
	Explanation string `json:"explanation"`
}

// TestCase represents a generated test case annotated with compliance
// justifications and a risk score
type TestCase struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	RequirementID string          `json:"requirement_id"`
	Title         string          `json:"title"`
	Steps         []string        `json:"steps"`
	Justification []Justification `json:"compliance_justification"`
	RiskScore     float64         `json:"risk_score"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewTestCase creates an annotated test case from a proposal and its assessment
func NewTestCase(projectID, requirementID string, proposal TestProposal, justification []Justification, riskScore float64) *TestCase {
	return &TestCase{
		ID:            uuid.New().String(),
		ProjectID:     projectID,
		RequirementID: requirementID,
		Title:         proposal.Title,
		Steps:         proposal.Steps,
		Justification: justification,
		RiskScore:     riskScore,
		CreatedAt:     time.Now(),
	}
}

// CitesRegulation reports whether any attached justification cites the given
// regulation name
func (t *TestCase) CitesRegulation(regulation string) bool {
	for _, j := range t.Justification {
		if j.Regulation == regulation {
			return true
		}
	}
	return false
}
