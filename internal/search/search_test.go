package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/resilience"
	"github.com/sells-group/role-scout/pkg/jina"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockJina struct {
	mock.Mock
}

func (m *mockJina) Search(ctx context.Context, query string, opts ...jina.SearchOption) (*jina.SearchResponse, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.(*jina.SearchResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func fast() resilience.Backoff {
	return resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: time.Millisecond}
}

func TestJina_SearchMapsAndCaps(t *testing.T) {
	m := new(mockJina)
	m.On("Search", mock.Anything, "acme official website").Return(&jina.SearchResponse{
		Data: []jina.SearchResult{
			{Title: "Acme", URL: "https://acme.com", Description: "Home of Acme"},
			{Title: "Acme Wiki", URL: "https://en.wikipedia.org/wiki/Acme", Content: "Acme is a company"},
			{Title: "Third", URL: "https://example.com"},
		},
	}, nil)

	p := NewJina(m, fast(), nil)
	got, err := p.Search(context.Background(), " acme official website ", 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Result{Title: "Acme", Snippet: "Home of Acme", URL: "https://acme.com"}, got[0])
	assert.Equal(t, "Acme is a company", got[1].Snippet)
	m.AssertExpectations(t)
}

func TestJina_RetriesTransientStatus(t *testing.T) {
	m := new(mockJina)
	m.On("Search", mock.Anything, "acme").Return(nil, &jina.StatusError{StatusCode: 503}).Once()
	m.On("Search", mock.Anything, "acme").Return(&jina.SearchResponse{
		Data: []jina.SearchResult{{URL: "https://acme.com"}},
	}, nil).Once()

	p := NewJina(m, fast(), nil)
	got, err := p.Search(context.Background(), "acme", 5)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	m.AssertNumberOfCalls(t, "Search", 2)
}

func TestJina_DoesNotRetryClientError(t *testing.T) {
	m := new(mockJina)
	m.On("Search", mock.Anything, "acme").Return(nil, &jina.StatusError{StatusCode: 401})

	p := NewJina(m, fast(), nil)
	_, err := p.Search(context.Background(), "acme", 5)

	require.Error(t, err)
	m.AssertNumberOfCalls(t, "Search", 1)
}

func TestJina_BreakerOpens(t *testing.T) {
	m := new(mockJina)
	m.On("Search", mock.Anything, "acme").Return(nil, &jina.StatusError{StatusCode: 400})

	b := resilience.NewBreaker("jina", 1, time.Minute)
	p := NewJina(m, fast(), b)

	_, err := p.Search(context.Background(), "acme", 5)
	require.Error(t, err)

	_, err = p.Search(context.Background(), "acme", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, resilience.ErrBreakerOpen)
	m.AssertNumberOfCalls(t, "Search", 1)
}

func TestJina_EmptyQuery(t *testing.T) {
	p := NewJina(new(mockJina), fast(), nil)
	_, err := p.Search(context.Background(), "   ", 5)
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format([]Result{
		{Title: "Acme", URL: "https://acme.com", Snippet: "Home"},
		{Title: "Wiki", URL: "https://en.wikipedia.org/wiki/Acme"},
	})
	assert.Equal(t, "Acme\nhttps://acme.com\nHome\n\nWiki\nhttps://en.wikipedia.org/wiki/Acme\n", out)
}
