package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/templates"
)

// maxTokens bounds a drafted skeleton; the builtin templates are well under
// a few hundred tokens.
const maxTokens = 1024

type ClaudeDrafter struct {
	client *anthropic.Client
	model  string
}

func NewClaudeDrafter(apiKey, model string, opts ...anthropic.ClientOption) *ClaudeDrafter {
	return &ClaudeDrafter{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (d *ClaudeDrafter) Draft(ctx context.Context, category domain.GuideCategory, topic string) (string, error) {
	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(templates.DraftPrompt(category, topic)),
		},
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude returned %s: %s", apiErr.Type, apiErr.Message)
		}
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			if text := templates.ParseDraft(c.GetText()); text != "" {
				return text, nil
			}
		}
	}
	return "", errors.New("claude returned no text content")
}
