package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campus-connect/internal/config"
)

// Rescorer is the optional AI scoring collaborator. The synchronous scorer
// in domain/matching is the fallback; nothing in the core may block on this.
type Rescorer interface {
	Score(ctx context.Context, proposal string, skills, tags []string) (int, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint and asks
// the model for a single integer compatibility score.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	httpDo  *http.Client
}

// NewClient returns nil when no endpoint is configured; callers must treat a
// nil rescorer as absent.
func NewClient(cfg config.RescoreConfig) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpDo:  &http.Client{Timeout: timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = "You rate how well an applicant fits a job. " +
	"Reply with a single integer from 0 to 100 and nothing else."

func (c *Client) Score(ctx context.Context, proposal string, skills, tags []string) (int, error) {
	if c == nil {
		return 0, errors.New("rescorer not configured")
	}

	userPrompt := fmt.Sprintf(
		"Job tags: %s\nApplicant skills: %s\nProposal:\n%s",
		strings.Join(tags, ", "), strings.Join(skills, ", "), proposal,
	)

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []message{{Role: "system", Content: systemPrompt}, {Role: "user", Content: userPrompt}},
		Temperature: 0.1,
		MaxTokens:   8,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("rescore endpoint returned %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if len(out.Choices) == 0 {
		return 0, errors.New("empty rescore response")
	}

	return parseScore(out.Choices[0].Message.Content)
}

func parseScore(raw string) (int, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r < '0' || r > '9'
	})
	if len(fields) == 0 {
		return 0, fmt.Errorf("no score in response: %q", raw)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("bad score in response: %q", raw)
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n, nil
}
