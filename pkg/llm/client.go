// Package llm talks to an OpenAI-compatible reasoning service, builds the analysis
// prompts and parses the free-text answers into analysis fields.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/dropscope/pkg/config"
)

// Client sends one prompt per call to the reasoning service
type Client struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// New creates a new reasoning service client
func New(cfg config.LLMConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

// default system prompt for domain appraisal
const defaultSystemPrompt = `You are an experienced domain name investor appraising expired domains for acquisition and resale.
You answer with a single JSON object and nothing else. All scores are numbers from 0 to 10 where:
- seo_score: value of the existing backlink profile and authority
- commercial_score: commercial intent and end-user demand for the name
- brandability_score: how memorable, pronounceable and brandable the name is
- competition_score: saturation of the niche, higher means more competition
- risk_score: trademark, spam history and legal risk, higher means riskier

Prices are in USD. Be conservative, most expired domains are not worth buying.`

// Complete sends the prompt and returns the raw text of the first choice
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemMsg,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	// add JSON response format if enabled
	if c.config.UseJSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from llm")
	}
	return content, nil
}
