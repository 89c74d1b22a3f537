package compliance

import (
	"fmt"
	"math"
	"strings"

	"github.com/equilix/equilix/internal/domain"
)

// baseScore is the risk floor assigned to every requirement/test pair before
// any trigger fires.
const baseScore = 0.2

// Engine derives compliance justifications and a bounded risk score from a
// requirement's text and a proposed test case. It is pure and consults no
// external state: identical inputs always produce identical output.
type Engine struct{}

// NewEngine creates a justification engine over the static rule catalog
func NewEngine() *Engine {
	return &Engine{}
}

// Assess returns the applicable clause citations and a risk score in
// [baseScore, 1.0] for the pair. The score grows with each matched trigger,
// is clamped to 1.0 and rounded to three decimal places. A pair matching no
// trigger yields an empty justification set and exactly the base score.
func (e *Engine) Assess(requirementText string, testCase domain.TestProposal) ([]domain.Justification, float64) {
	justifications := []domain.Justification{}
	score := baseScore

	text := strings.ToLower(requirementText)
	for _, rule := range catalog {
		if !strings.Contains(text, rule.Keyword) {
			continue
		}
		for _, c := range rule.Citations {
			justifications = append(justifications, c.justification())
		}
		score += rule.Increment
	}

	// Steps may carry audit evidence the requirement text never mentions.
	// First-match-wins per regulation: an audit citation already added from
	// the requirement text suppresses the steps-level one.
	steps := strings.ToLower(strings.Join(testCase.Steps, " "))
	if strings.Contains(steps, stepsAuditRule.Keyword) && !citesRegulation(justifications, stepsAuditRule.Citations[0].Regulation) {
		justifications = append(justifications, stepsAuditRule.Citations[0].justification())
		score += stepsAuditRule.Increment
	}

	for i := range justifications {
		j := &justifications[i]
		j.Explanation = fmt.Sprintf("Requirement relates to %s %s: %s", j.Regulation, j.Clause, j.Message)
	}

	return justifications, roundScore(math.Min(1.0, score))
}

func citesRegulation(justifications []domain.Justification, regulation string) bool {
	for _, j := range justifications {
		if j.Regulation == regulation {
			return true
		}
	}
	return false
}

func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
