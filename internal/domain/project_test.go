package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProjectDefaults(t *testing.T) {
	p := NewProject("ehr", "", nil)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "US", p.Region)
	assert.Equal(t, []string{"HIPAA", "21CFR"}, p.Regulations)
}

func TestNewProjectKeepsExplicitValues(t *testing.T) {
	p := NewProject("ehr", "EU", []string{"GDPR"})

	assert.Equal(t, "EU", p.Region)
	assert.Equal(t, []string{"GDPR"}, p.Regulations)
}

func TestSplitRequirements(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "paragraphs split on blank lines",
			content: "First requirement.\n\nSecond requirement.",
			want:    []string{"First requirement.", "Second requirement."},
		},
		{
			name:    "whitespace-only blocks dropped",
			content: "First.\n\n   \n\nSecond.\n\n",
			want:    []string{"First.", "Second."},
		},
		{
			name:    "single paragraph kept whole",
			content: "One requirement\nwith a soft line break.",
			want:    []string{"One requirement\nwith a soft line break."},
		},
		{
			name:    "empty input",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitRequirements(tt.content))
		})
	}
}

func TestTestCaseCitesRegulation(t *testing.T) {
	tc := NewTestCase("p1", "r1", TestProposal{Title: "t"},
		[]Justification{{Regulation: "HIPAA", Clause: "164.308"}}, 0.6)

	assert.True(t, tc.CitesRegulation("HIPAA"))
	assert.False(t, tc.CitesRegulation("GDPR"))
}
