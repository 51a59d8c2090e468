// Package search defines the web search collaborator used for official
// domain discovery and as context for search-augmented agents.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/resilience"
	"github.com/sells-group/role-scout/pkg/jina"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Provider runs a web search and returns at most maxResults hits.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Jina adapts a jina.Client to Provider with retry and a circuit breaker.
type Jina struct {
	client  jina.Client
	backoff resilience.Backoff
	breaker *resilience.Breaker
}

// NewJina wraps client. A nil breaker disables circuit breaking.
func NewJina(client jina.Client, backoff resilience.Backoff, breaker *resilience.Breaker) *Jina {
	backoff.Retryable = retryable
	if backoff.OnRetry == nil {
		backoff.OnRetry = resilience.LogRetries("jina", "search")
	}
	return &Jina{client: client, backoff: backoff, breaker: breaker}
}

// Search implements Provider.
func (j *Jina) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, eris.New("search: empty query")
	}

	call := func(ctx context.Context) (*jina.SearchResponse, error) {
		return resilience.Retry(ctx, j.backoff, func(ctx context.Context) (*jina.SearchResponse, error) {
			return j.client.Search(ctx, query, jina.WithLimit(maxResults))
		})
	}

	var (
		resp *jina.SearchResponse
		err  error
	)
	if j.breaker != nil {
		resp, err = resilience.Call(ctx, j.breaker, call)
	} else {
		resp, err = call(ctx)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "search: query %q", query)
	}

	results := make([]Result, 0, len(resp.Data))
	for _, d := range resp.Data {
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
		snippet := d.Description
		if snippet == "" {
			snippet = truncate(d.Content, 300)
		}
		results = append(results, Result{Title: d.Title, Snippet: snippet, URL: d.URL})
	}

	zap.L().Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}

func retryable(err error) bool {
	var se *jina.StatusError
	if errors.As(err, &se) {
		return resilience.IsTransientStatus(se.StatusCode)
	}
	return resilience.IsTransient(err)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Format renders results as a numbered plain-text block for prompts.
func Format(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(r.Title))
		b.WriteString("\n")
		b.WriteString(r.URL)
		if s := strings.TrimSpace(r.Snippet); s != "" {
			b.WriteString("\n")
			b.WriteString(s)
		}
		b.WriteString("\n")
	}
	return b.String()
}
