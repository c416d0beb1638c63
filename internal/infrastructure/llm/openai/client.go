// Package openai provides a Narrator implementation using OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

const systemPrompt = `You are a narrator for a Dungeons & Dragons 3.5 campaign.
Rewrite the draft the game master gives you into vivid, concise prose.

Rules:
- Keep every name, place, number and fact from the draft. Do not invent new ones.
- Keep roughly the same length.
- Return ONLY the rewritten text, no preamble or markdown.`

// kindPrompts tailor the request per narrated record.
var kindPrompts = map[string]string{
	"backstory": "Rewrite this character backstory in the second person, as if read aloud to the player:",
	"plot":      "Rewrite this campaign outline as a short pitch the game master could read to the table:",
}

const defaultKindPrompt = "Rewrite this text:"

// Client implements ports.Narrator using OpenAI chat completions.
type Client struct {
	client *openai.Client
	model  string
}

var _ ports.Narrator = (*Client)(nil)

// NewClient creates a new OpenAI narrator client.
func NewClient(cfg config.NarratorConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Narrate rewrites draft into polished prose.
func (c *Client) Narrate(ctx context.Context, kind, draft string) (string, error) {
	if strings.TrimSpace(draft) == "" {
		return "", errors.New("nothing to narrate")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(kind, draft),
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	content := cleanResponse(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty response from OpenAI")
	}
	return content, nil
}

// buildPrompt prefixes the draft with the instruction for its kind.
func buildPrompt(kind, draft string) string {
	instruction, ok := kindPrompts[kind]
	if !ok {
		instruction = defaultKindPrompt
	}
	return instruction + "\n\n" + draft
}

// cleanResponse removes markdown code blocks and wrapping quotes if present.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if i := strings.IndexByte(content, '\n'); i >= 0 && !strings.Contains(content[:i], " ") {
			content = content[i+1:] // drop a language tag such as ```text
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	content = strings.TrimSpace(content)
	if len(content) >= 2 && strings.HasPrefix(content, `"`) && strings.HasSuffix(content, `"`) {
		content = content[1 : len(content)-1]
	}

	return strings.TrimSpace(content)
}
