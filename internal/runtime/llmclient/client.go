// Package llmclient is the concrete, real implementation of
// runtime.LLMClient: a thin adapter over an OpenAI-compatible
// chat-completions endpoint using github.com/sashabaranov/go-openai. This
// is the "remote model servers (reached via HTTP)" collaborator of
// spec.md §1 for the llm-text step kind — opaque to the core, which only
// ever sees the runtime.Facade.LLM method.
package llmclient

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lanedrift/reelforge/internal/runtime"
)

// Client adapts an OpenAI-compatible API to runtime.LLMClient.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a Client. baseURL may be empty to use the default OpenAI API;
// set it to point at any OpenAI-compatible remote model server.
func New(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Complete implements runtime.LLMClient.
func (c *Client) Complete(ctx context.Context, req runtime.LLMRequest) (string, error) {
	model := c.model
	if req.ProviderTag != "" {
		model = req.ProviderTag
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("llmclient: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llmclient: empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
