package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/search"
	"github.com/sells-group/role-scout/pkg/anthropic"
)

const claudeResultsPerQuery = 5

// Claude runs tasks on an Anthropic model, grounding it with web search
// results for the task's queries.
type Claude struct {
	client      anthropic.Client
	search      search.Provider
	persona     Persona
	model       string
	maxTokens   int64
	temperature float64
	hasKey      bool
}

// NewClaude builds an agent. A nil search provider sends the instruction
// without context.
func NewClaude(client anthropic.Client, sp search.Provider, apiKey, model string, maxTokens int64, temperature float64, persona Persona) *Claude {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Claude{
		client:      client,
		search:      sp,
		persona:     persona,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		hasKey:      strings.TrimSpace(apiKey) != "",
	}
}

// Run implements Agent.
func (c *Claude) Run(ctx context.Context, task Task) (string, error) {
	if !c.hasKey {
		return "", errMissingKey(ProviderAnthropic)
	}

	prompt := task.Instruction
	if evidence := c.gather(ctx, task); evidence != "" {
		prompt = "Web search results:\n\n" + evidence + "\n---\n\n" + prompt
	}

	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		System:      c.persona.System(),
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		Temperature: floatPtr(c.temperature),
	})
	if err != nil {
		return "", wrapStatus(ProviderAnthropic, anthropic.StatusCode(err), err)
	}
	resp.Usage.Log(c.model, task.Name)
	return resp.Text(), nil
}

// gather runs each query in turn. Search failures only cost context.
func (c *Claude) gather(ctx context.Context, task Task) string {
	if c.search == nil || len(task.Queries) == 0 {
		return ""
	}

	var b strings.Builder
	for _, q := range task.Queries {
		results, err := c.search.Search(ctx, q, claudeResultsPerQuery)
		if err != nil {
			zap.L().Debug("agent: search for context failed",
				zap.String("task", task.Name),
				zap.String("query", q),
				zap.Error(err),
			)
			continue
		}
		if len(results) == 0 {
			continue
		}
		b.WriteString("Query: ")
		b.WriteString(q)
		b.WriteString("\n")
		b.WriteString(search.Format(results))
		b.WriteString("\n")
	}
	return b.String()
}
