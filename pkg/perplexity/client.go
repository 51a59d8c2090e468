// Package perplexity calls the Perplexity chat completions API. Its sonar
// models search the web before answering, and each answer comes back with
// the URLs it was grounded on.
package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"
)

// Recency windows accepted by the search_recency_filter parameter.
var Recencies = []string{"hour", "day", "week", "month", "year"}

// ValidRecency reports whether r is empty or a known recency window.
func ValidRecency(r string) bool {
	if r == "" {
		return true
	}
	for _, v := range Recencies {
		if strings.EqualFold(r, v) {
			return true
		}
	}
	return false
}

// Client asks grounded questions of the Perplexity API.
type Client interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// ChatCompletionRequest is the body of POST /chat/completions.
type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	// SearchRecency limits web search to the given window, e.g. "year".
	SearchRecency string `json:"search_recency_filter,omitempty"`
	// SearchDomains restricts (or, with a "-" prefix, excludes) domains.
	SearchDomains []string `json:"search_domain_filter,omitempty"`
}

// Message is one turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage and UserMessage build the two turns a lookup sends.
func SystemMessage(s string) Message { return Message{Role: "system", Content: s} }

func UserMessage(s string) Message { return Message{Role: "user", Content: s} }

// ChatCompletionResponse is the body returned by POST /chat/completions.
type ChatCompletionResponse struct {
	ID            string         `json:"id"`
	Choices       []Choice       `json:"choices"`
	Citations     []string       `json:"citations,omitempty"`
	SearchResults []SearchResult `json:"search_results,omitempty"`
	Usage         Usage          `json:"usage"`
}

// SearchResult is a page the model read while answering.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date,omitempty"`
}

// Content returns the answer text of the first choice.
func (r *ChatCompletionResponse) Content() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Sources returns the distinct grounding URLs: citations first, then any
// search results not already cited.
func (r *ChatCompletionResponse) Sources() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool, len(r.Citations)+len(r.SearchResults))
	var out []string
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	for _, c := range r.Citations {
		add(c)
	}
	for _, sr := range r.SearchResults {
		add(sr.URL)
	}
	return out
}

// Choice is a single completion choice.
type Choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// StatusError carries a non-200 API response so callers can tell rate
// limits and bad keys apart.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("perplexity: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*apiClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *apiClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the model used when a request names none.
func WithModel(model string) Option {
	return func(c *apiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithRecency sets the search window used when a request names none.
func WithRecency(r string) Option {
	return func(c *apiClient) {
		c.recency = strings.ToLower(strings.TrimSpace(r))
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *apiClient) {
		c.http = hc
	}
}

type apiClient struct {
	apiKey  string
	baseURL string
	model   string
	recency string
	http    *http.Client
}

// NewClient creates a Perplexity API client. Grounded answers take longer
// than plain completions, hence the generous timeout.
func NewClient(apiKey string, opts ...Option) Client {
	c := &apiClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: 90 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *apiClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	if req.SearchRecency == "" {
		req.SearchRecency = c.recency
	}

	var out ChatCompletionResponse
	if err := c.post(ctx, "/chat/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends in as JSON and decodes a 200 response into out.
func (c *apiClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return eris.Wrap(err, "perplexity: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "perplexity: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "perplexity: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "perplexity: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "perplexity: unmarshal response")
	}
	return nil
}
