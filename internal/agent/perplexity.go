package agent

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/role-scout/pkg/perplexity"
)

// Perplexity runs tasks on a search-grounded Perplexity model. Grounding
// sources are appended to the answer so URLs survive into the raw text.
type Perplexity struct {
	client      perplexity.Client
	persona     Persona
	model       string
	temperature float64
	hasKey      bool
}

// NewPerplexity builds an agent. An empty apiKey makes Run fail with a
// credential error.
func NewPerplexity(client perplexity.Client, apiKey, model string, temperature float64, persona Persona) *Perplexity {
	return &Perplexity{
		client:      client,
		persona:     persona,
		model:       model,
		temperature: temperature,
		hasKey:      strings.TrimSpace(apiKey) != "",
	}
}

// Run implements Agent.
func (p *Perplexity) Run(ctx context.Context, task Task) (string, error) {
	if !p.hasKey {
		return "", errMissingKey(ProviderPerplexity)
	}

	resp, err := p.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Model: p.model,
		Messages: []perplexity.Message{
			perplexity.SystemMessage(p.persona.System()),
			perplexity.UserMessage(task.Instruction),
		},
		Temperature: floatPtr(p.temperature),
	})
	if err != nil {
		var se *perplexity.StatusError
		status := 0
		if errors.As(err, &se) {
			status = se.StatusCode
		}
		return "", wrapStatus(ProviderPerplexity, status, err)
	}

	zap.L().Debug("agent: perplexity task complete",
		zap.String("task", task.Name),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("citations", len(resp.Citations)),
		zap.Int("search_results", len(resp.SearchResults)),
	)

	text := resp.Content()
	if sources := resp.Sources(); len(sources) > 0 && !looksLikeJSON(text) {
		text += "\n\nSources:\n" + strings.Join(sources, "\n")
	}
	return text, nil
}
