// Package llm talks to the Anthropic-style messages endpoint that powers
// the assistant's free-form replies. The full ordered conversation history
// is threaded into every request; failures come back as classified
// ProviderErrors, never panics.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dealerdesk/concierge/internal/convo"
)

const anthropicVersion = "2023-06-01"

// DefaultSystemPrompt guides the assistant across all six brands.
const DefaultSystemPrompt = `You are the Jack Ingram Motors AI Assistant, helping customers with vehicle information, service scheduling, and general dealership inquiries across Audi, Mercedes-Benz, Nissan, Porsche, Volkswagen, and Volvo.

Your goals:
1. Provide helpful, accurate information about vehicles, services, and dealership details.
2. Assist with scheduling service appointments and test drives.
3. Answer questions about financing, trade-ins, and special offers.
4. Match your tone to the brand under discussion (Audi: tech-forward; Mercedes-Benz: luxurious; Nissan: value-focused; Porsche: performance-oriented; Volkswagen: practical; Volvo: safety-focused).

Always identify which dealership location you are discussing when providing specific information.`

// Request carries one completion call.
type Request struct {
	History     []convo.Turn
	UserMessage string
	ContextNote string // optional structured-data summary appended to the system prompt
	MaxTokens   int
}

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Reply is a successful completion.
type Reply struct {
	Text           string
	ConversationID string
	Model          string
	Usage          Usage
}

// Client produces assistant text for a conversation.
type Client interface {
	Complete(ctx context.Context, req Request) (Reply, error)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system"`
	Messages  []wireMessage `json:"messages"`
}

type wireResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage Usage `json:"usage"`
}

// HTTPClient is the production Client backed by the messages API.
type HTTPClient struct {
	apiURL       string
	apiKey       string
	model        string
	systemPrompt string
	maxTokens    int
	client       *http.Client
}

type HTTPConfig struct {
	APIURL       string
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Timeout      time.Duration
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPClient{
		apiURL:       strings.TrimSpace(cfg.APIURL),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		client:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *HTTPClient) Complete(ctx context.Context, req Request) (Reply, error) {
	messages := make([]wireMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		messages = append(messages, wireMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, wireMessage{Role: convo.RoleUser, Content: req.UserMessage})

	system := c.systemPrompt
	if note := strings.TrimSpace(req.ContextNote); note != "" {
		system += "\n\n" + note
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}

	payload, err := json.Marshal(wireRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
	})
	if err != nil {
		return Reply{}, &ProviderError{Code: CodeUnknown, Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return Reply{}, &ProviderError{Code: CodeUnknown, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return Reply{}, &ProviderError{Code: CodeTransport, Err: fmt.Errorf("send request: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Reply{}, &ProviderError{
			Code:   classifyStatus(res.StatusCode),
			Status: res.StatusCode,
			Err:    fmt.Errorf("status %d: %s", res.StatusCode, string(body)),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Reply{}, &ProviderError{Code: CodeTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Reply{}, &ProviderError{Code: CodeUnknown, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(wire.Content) == 0 {
		return Reply{}, &ProviderError{Code: CodeUnknown, Err: fmt.Errorf("empty content in response")}
	}

	return Reply{
		Text:           wire.Content[0].Text,
		ConversationID: wire.ID,
		Model:          wire.Model,
		Usage:          wire.Usage,
	}, nil
}

func classifyStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeAuth
	default:
		return CodeTransport
	}
}
