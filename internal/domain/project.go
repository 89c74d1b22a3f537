package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project represents a regulated product under test
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Region      string    `json:"region"`
	Regulations []string  `json:"regulations"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates a new project with defaults matching the intake form
func NewProject(name, region string, regulations []string) *Project {
	if region == "" {
		region = "US"
	}
	if len(regulations) == 0 {
		regulations = []string{"HIPAA", "21CFR"}
	}
	return &Project{
		ID:          uuid.New().String(),
		Name:        name,
		Region:      region,
		Regulations: regulations,
		CreatedAt:   time.Now(),
	}
}

// Requirement represents a single regulatory requirement ingested for a project
type Requirement struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRequirement creates a requirement attached to a project
func NewRequirement(projectID, text string) *Requirement {
	return &Requirement{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// SplitRequirements splits raw ingested text into individual requirements.
// Paragraphs separated by blank lines are treated as separate requirements.
func SplitRequirements(content string) []string {
	var out []string
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		out = append(out, block)
	}
	return out
}
