package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/templates"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// OllamaDrafter drafts templates with a local Ollama server's generate API.
type OllamaDrafter struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaDrafter(host, model string) *OllamaDrafter {
	return &OllamaDrafter{
		host:   host,
		model:  model,
		client: &http.Client{},
	}
}

func (d *OllamaDrafter) Draft(ctx context.Context, category domain.GuideCategory, topic string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  d.model,
		Prompt: templates.DraftPrompt(category, topic),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, errBody)
	}

	var body generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := templates.ParseDraft(body.Response)
	if text == "" {
		return "", fmt.Errorf("ollama returned an empty draft")
	}
	return text, nil
}
