package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HistoryMessage is one turn of prior conversation passed to a provider.
// Role is "user" or "assistant".
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AttachedFile is a file the caller wants the model to see.
type AttachedFile struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// GenerateOptions holds per-call generation parameters.
// Zero values mean "provider default" (temperature 0 is expressed by the
// callers as a small positive value, which is what they want in practice).
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float32
	MaxTokens    int32
	History      []HistoryMessage
	Files        []AttachedFile
}

// Outcome is the uniform result of one provider call. It is created once per
// call and never mutated afterwards.
type Outcome struct {
	Success   bool    `json:"success"`
	Content   string  `json:"content"`
	Model     string  `json:"model"`
	TokensIn  int     `json:"tokens_in"`
	TokensOut int     `json:"tokens_out"`
	CostUSD   float64 `json:"cost_usd"`
	LatencyMs int64   `json:"latency_ms"`
}

// Client is an abstraction over LLM providers
type Client interface {
	// Generate issues one generation call at the specified model tier
	Generate(ctx context.Context, prompt string, tier ModelTier, opts GenerateOptions) (*Outcome, error)
	// Provider returns the provider identity of this client
	Provider() Provider
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client for the given provider
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultGeminiConfig()
	}

	switch config.Provider {
	case ProviderClaude:
		return NewClaudeClient(config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate issues one generation call against Gemini
func (c *GeminiClient) Generate(ctx context.Context, prompt string, tier ModelTier, opts GenerateOptions) (*Outcome, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}
	if opts.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemPrompt)},
		}
	}

	parts := make([]genai.Part, 0, 1+len(opts.Files))
	for _, f := range opts.Files {
		parts = append(parts, genai.Blob{MIMEType: f.MIMEType, Data: f.Data})
	}
	if prompt != "" {
		parts = append(parts, genai.Text(prompt))
	}

	start := time.Now()

	var resp *genai.GenerateContentResponse
	var err error
	if len(opts.History) > 0 {
		session := model.StartChat()
		session.History = buildGeminiHistory(opts.History)
		resp, err = session.SendMessage(ctx, parts...)
	} else {
		resp, err = model.GenerateContent(ctx, parts...)
	}
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, err
	}

	tokensIn, tokensOut := 0, 0
	if resp.UsageMetadata != nil {
		tokensIn = int(resp.UsageMetadata.PromptTokenCount)
		tokensOut = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &Outcome{
		Success:   true,
		Content:   text,
		Model:     modelName,
		TokensIn:  tokensIn,
		TokensOut: tokensOut,
		CostUSD:   EstimateCost(modelName, tokensIn, tokensOut),
		LatencyMs: latency,
	}, nil
}

// Provider returns the Gemini provider identity
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// buildGeminiHistory converts neutral history messages to genai content.
// Gemini names the assistant role "model".
func buildGeminiHistory(history []HistoryMessage) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return out
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
