package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini agent.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

// Gemini runs tasks on a Gemini model with Google Search grounding.
// Grounding sources are appended to free-text answers.
type Gemini struct {
	client      *genai.Client
	persona     Persona
	model       string
	temperature float32
}

// NewGemini creates the agent. Without an API key no client is created and
// Run fails with a credential error.
func NewGemini(ctx context.Context, cfg GeminiConfig, persona Persona) (*Gemini, error) {
	g := &Gemini{
		persona:     persona,
		model:       strings.TrimSpace(cfg.Model),
		temperature: float32(cfg.Temperature),
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return g, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if u := strings.TrimSpace(cfg.BaseURL); u != "" {
		cc.HTTPOptions.BaseURL = u
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "agent: create gemini client")
	}
	g.client = client
	return g, nil
}

// Run implements Agent.
func (g *Gemini) Run(ctx context.Context, task Task) (string, error) {
	if g.client == nil {
		return "", errMissingKey(ProviderGemini)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(task.Instruction),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.persona.System(), genai.RoleUser),
			Tools:             []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			Temperature:       genai.Ptr(g.temperature),
			CandidateCount:    1,
		},
	)
	if err != nil {
		var apiErr genai.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.Code
		}
		return "", wrapStatus(ProviderGemini, status, err)
	}

	text := resp.Text()
	sources := groundingSources(resp)
	zap.L().Debug("agent: gemini task complete",
		zap.String("task", task.Name),
		zap.Int("sources", len(sources)),
	)
	if len(sources) > 0 && !looksLikeJSON(text) {
		text += "\n\nSources:\n" + strings.Join(sources, "\n")
	}
	return text, nil
}

func groundingSources(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}

	seen := map[string]struct{}{}
	var out []string
	for _, chunk := range gm.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}
	return out
}
