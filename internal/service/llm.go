package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/markbryceit/eatwell.ai-sub000/config"
)

// LLMInvoker is the generative-model boundary. Given an instruction and a
// JSON response schema it returns schema-shaped JSON. Schema conformance
// is assumed from the provider, not validated here; the post-processor
// handles content it cannot resolve. No retries: a failure is fatal to
// the request.
type LLMInvoker interface {
	Invoke(ctx context.Context, prompt string, schema map[string]interface{}) (json.RawMessage, error)
}

// LLMClient calls the DeepSeek chat completions API with json_object
// response format, carrying the response schema in the system message.
type LLMClient struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewLLMClient(cfg *config.Config) (*LLMClient, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY must be set")
	}
	return &LLMClient{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		client: &http.Client{},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

// Invoke sends the prompt and schema and returns the raw JSON content of
// the first choice.
func (s *LLMClient) Invoke(ctx context.Context, prompt string, schema map[string]interface{}) (json.RawMessage, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response schema: %w", err)
	}

	messages := []chatMessage{
		{
			Role: "system",
			Content: "You are a nutrition and meal planning assistant. Respond ONLY with a single JSON object conforming to this JSON schema, no extra text:\n" +
				string(schemaJSON),
		},
		{
			Role:    "user",
			Content: prompt,
		},
	}

	reqBody := chatRequest{
		Model:          "deepseek-chat",
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return json.RawMessage(result.Choices[0].Message.Content), nil
}
