package proposal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/equilix/equilix/internal/domain"
	"github.com/equilix/equilix/internal/ports"
)

const defaultModel = "gpt-4o-mini"

// OpenAISource generates test case proposals through the OpenAI
// chat-completions API. Any failure is an error for the caller to recover
// from; the generation usecase substitutes the fixed fallback set.
type OpenAISource struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAISource creates a new OpenAI proposal source
func NewOpenAISource(config ports.ProposalConfig) *OpenAISource {
	model := config.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAISource{
		apiKey:  config.APIKey,
		baseURL: "https://api.openai.com/v1",
		model:   model,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
		},
	}
}

// Propose asks the model for 2-3 test cases for the requirement
func (s *OpenAISource) Propose(ctx context.Context, requirementText string) ([]domain.TestProposal, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("proposal source unconfigured: missing API key")
	}

	prompt := fmt.Sprintf(`
You are an expert software QA engineer specializing in regulated domains
(HIPAA, GDPR, 21 CFR Part 11).
Given the requirement below, generate 2-3 test cases.

Requirement: %s

Return JSON with field "tests": a list of objects with fields:
- title (string)
- steps (list of steps, each a short string)
`, requirementText)

	requestBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI API error: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	var parsed struct {
		Tests []domain.TestProposal `json:"tests"`
	}
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse proposals: %w", err)
	}
	if len(parsed.Tests) == 0 {
		return nil, fmt.Errorf("no proposals in response")
	}

	return parsed.Tests, nil
}
