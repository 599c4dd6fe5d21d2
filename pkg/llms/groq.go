// Package llms implements the chat completion client used for the
// anonymized LLM round trip.
package llms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/getveil/veil/config"
	"github.com/getveil/veil/internal"
)

var log = internal.GetLogger()

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	completionsPath    = "/chat/completions"

	maxRetries = 3
)

var ErrEmptyCompletion = errors.New("completion response contained no choices")

// GroqClient talks to Groq's OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	// BaseURL can be pointed at a test server.
	BaseURL string

	client *retryablehttp.Client
	apiKey string
	model  string
}

func NewGroqClient(cfg *config.Config) (*GroqClient, error) {
	if cfg.LLM.APIKey == "" {
		return nil, errors.New("llm api key not set")
	}
	client := retryablehttp.NewClient()
	client.RetryMax = maxRetries
	client.Logger = internal.NewLeveledLogrus(log)
	return &GroqClient{
		BaseURL: DefaultGroqBaseURL,
		client:  client,
		apiKey:  cfg.LLM.APIKey,
		model:   cfg.LLM.Model,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.BaseURL+completionsPath,
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf(
			"completion request returned status %d: %s",
			resp.StatusCode,
			bodyBytes,
		)
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}
