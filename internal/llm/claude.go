// Package llm - claude.go implements the Client interface for Anthropic Claude
// using the Messages API directly over HTTP.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com"
	claudeAPIVersion     = "2023-06-01"
	// The Messages API rejects requests without max_tokens, so a request that
	// leaves it unset gets a conservative ceiling.
	defaultClaudeMaxTokens = 4096
)

// ClaudeClient implements Client for Anthropic Claude
type ClaudeClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
	baseURL    string
}

// NewClaudeClient creates a new Claude client
func NewClaudeClient(config *Config, apiKey string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultClaudeConfig()
	}

	return &ClaudeClient{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		config:     config,
		apiKey:     apiKey,
		baseURL:    defaultClaudeBaseURL,
	}, nil
}

// WithBaseURL overrides the API endpoint. Used by tests to point the client
// at a local server.
func (c *ClaudeClient) WithBaseURL(baseURL string) *ClaudeClient {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// claudeRequest is the Messages API request body
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int32           `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature *float32        `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *claudeSource `json:"source,omitempty"`
}

type claudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// claudeResponse is the Messages API response body
type claudeResponse struct {
	Type    string        `json:"type"`
	Content []claudeBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate issues one generation call against Claude
func (c *ClaudeClient) Generate(ctx context.Context, prompt string, tier ModelTier, opts GenerateOptions) (*Outcome, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	body := claudeRequest{
		Model:     modelName,
		MaxTokens: defaultClaudeMaxTokens,
		System:    opts.SystemPrompt,
		Messages:  buildClaudeMessages(prompt, opts),
	}
	if opts.MaxTokens > 0 {
		body.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		t := opts.Temperature
		body.Temperature = &t
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed claudeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = fmt.Sprintf("%s: %s", parsed.Error.Type, parsed.Error.Message)
		}
		return nil, fmt.Errorf("Claude API error (status %d): %s", resp.StatusCode, msg)
	}

	text := extractClaudeText(parsed.Content)
	if text == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	return &Outcome{
		Success:   true,
		Content:   text,
		Model:     modelName,
		TokensIn:  parsed.Usage.InputTokens,
		TokensOut: parsed.Usage.OutputTokens,
		CostUSD:   EstimateCost(modelName, parsed.Usage.InputTokens, parsed.Usage.OutputTokens),
		LatencyMs: latency,
	}, nil
}

// Provider returns the Claude provider identity
func (c *ClaudeClient) Provider() Provider {
	return ProviderClaude
}

// GetModel returns the model name for a tier
func (c *ClaudeClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *ClaudeClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// buildClaudeMessages converts prompt, history, and files to the Messages API
// shape. History alternates before the current user turn; attached files
// become base64 source blocks on the final user message.
func buildClaudeMessages(prompt string, opts GenerateOptions) []claudeMessage {
	messages := make([]claudeMessage, 0, len(opts.History)+1)
	for _, m := range opts.History {
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "assistant"
		}
		messages = append(messages, claudeMessage{
			Role:    role,
			Content: []claudeBlock{{Type: "text", Text: m.Content}},
		})
	}

	blocks := make([]claudeBlock, 0, 1+len(opts.Files))
	for _, f := range opts.Files {
		blockType := "document"
		if strings.HasPrefix(f.MIMEType, "image/") {
			blockType = "image"
		}
		blocks = append(blocks, claudeBlock{
			Type: blockType,
			Source: &claudeSource{
				Type:      "base64",
				MediaType: f.MIMEType,
				Data:      base64.StdEncoding.EncodeToString(f.Data),
			},
		})
	}
	if prompt != "" {
		blocks = append(blocks, claudeBlock{Type: "text", Text: prompt})
	}

	return append(messages, claudeMessage{Role: "user", Content: blocks})
}

// extractClaudeText joins all text blocks from a response
func extractClaudeText(blocks []claudeBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "")
}
