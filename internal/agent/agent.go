// Package agent provides the LLM collaborators that research and validate
// a candidate role holder.
package agent

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// Task is a single instruction for an agent.
type Task struct {
	// Name labels the task in logs ("research", "validation").
	Name        string
	Instruction string
	// Queries are search queries the agent may run for context.
	Queries []string
}

// Agent runs a task and returns the model's raw text.
type Agent interface {
	Run(ctx context.Context, task Task) (string, error)
}

// Persona is the system framing given to an agent.
type Persona struct {
	Role      string
	Goal      string
	Backstory string
}

// System renders the persona as a system prompt.
func (p Persona) System() string {
	var b strings.Builder
	b.WriteString("You are a ")
	b.WriteString(p.Role)
	b.WriteString(".\n")
	if p.Goal != "" {
		b.WriteString("Goal: ")
		b.WriteString(p.Goal)
		b.WriteString("\n")
	}
	if p.Backstory != "" {
		b.WriteString(p.Backstory)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// Researcher finds the person holding a role.
var Researcher = Persona{
	Role: "OSINT Research Specialist",
	Goal: "Discover the full name of the person holding a specific role in a given company " +
		"using smart query generation and public sources.",
	Backstory: "You are an expert in open-source intelligence gathering. " +
		"You generate intelligent search queries and extract relevant person names " +
		"from publicly available sources like LinkedIn, official websites, Wikipedia, and news articles.",
}

// Validator cross-checks a discovered name.
var Validator = Persona{
	Role: "Source Validation Analyst",
	Goal: "Verify that the discovered person truly holds the given role " +
		"in the specified company using multiple credible public sources.",
	Backstory: "You are a meticulous verification analyst. " +
		"You cross-check names, roles, and companies across multiple public sources " +
		"such as official websites, Wikipedia, and reputable news outlets. " +
		"You reject weak or single-source claims.",
}

// Provider names accepted by config.
const (
	ProviderPerplexity = "perplexity"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// errMissingKey is returned by agents built without credentials.
func errMissingKey(provider string) error {
	return eris.Errorf("agent: %s missing api_key", provider)
}

// wrapStatus tags provider failures so callers can tell rate limits and
// credential problems apart by message.
func wrapStatus(provider string, status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return eris.Wrapf(err, "agent: %s ratelimit (429)", provider)
	case http.StatusUnauthorized, http.StatusForbidden:
		return eris.Wrapf(err, "agent: %s rejected api_key", provider)
	}
	return eris.Wrapf(err, "agent: %s call failed", provider)
}

// looksLikeJSON reports whether text is a JSON object, fenced or bare.
// Such answers are left untouched.
func looksLikeJSON(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "```")
}

func floatPtr(f float64) *float64 { return &f }
