package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       model,
		maxTokens:   4000,
		temperature: 0.1,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	temp := c.temperature
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens:   c.maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return "", err
	}
	text := resp.GetFirstContentText()
	if text == "" {
		return "", fmt.Errorf("no response content")
	}
	return text, nil
}

func (c *ClaudeClient) GenerateWithTools(ctx context.Context, prompt string, tools []Tool) (string, error) {
	defs := make([]anthropic.ToolDefinition, 0, len(tools))
	byName := map[string]Tool{}
	for _, t := range tools {
		defs = append(defs, anthropic.ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema(),
		})
		byName[t.Name] = t
	}

	messages := []anthropic.Message{anthropic.NewUserTextMessage(prompt)}
	temp := c.temperature

	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
			Model:       anthropic.Model(c.model),
			Messages:    messages,
			MaxTokens:   c.maxTokens,
			Temperature: &temp,
			Tools:       defs,
		})
		if err != nil {
			return "", err
		}

		if resp.StopReason != anthropic.MessagesStopReasonToolUse {
			text := resp.GetFirstContentText()
			if text == "" {
				return "", fmt.Errorf("no response content")
			}
			return text, nil
		}

		// Echo the assistant turn, then answer every tool_use block.
		messages = append(messages, anthropic.Message{
			Role:    anthropic.RoleAssistant,
			Content: resp.Content,
		})
		var results []anthropic.MessageContent
		for _, block := range resp.Content {
			if block.Type != anthropic.MessagesContentTypeToolUse || block.MessageContentToolUse == nil {
				continue
			}
			use := block.MessageContentToolUse
			tool, ok := byName[use.Name]
			if !ok {
				results = append(results, anthropic.NewToolResultMessageContent(
					use.ID, fmt.Sprintf("unknown tool: %s", use.Name), true))
				continue
			}
			out, err := tool.Invoke(ctx, use.Input)
			if err != nil {
				results = append(results, anthropic.NewToolResultMessageContent(use.ID, err.Error(), true))
				continue
			}
			results = append(results, anthropic.NewToolResultMessageContent(use.ID, out, false))
		}
		messages = append(messages, anthropic.Message{
			Role:    anthropic.RoleUser,
			Content: results,
		})
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)
}
