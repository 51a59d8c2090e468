package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/internal/search"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestRootDomain(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"https://about.meta.com/careers", "meta.com", true},
		{"https://about.meta.com/x", "meta.com", true},
		{"https://news.bbc.co.uk/story", "bbc.co.uk", true},
		{"https://en.wikipedia.org/wiki/Acme", "wikipedia.org", true},
		{"www.acme.com/team", "acme.com", true},
		{"HTTPS://WWW.ACME.COM", "acme.com", true},
		{"not a url", "", false},
		{"", "", false},
		{"http://localhost:8080/x", "", false},
		{"http://10.0.0.1/about", "", false},
		{"https://acme.notarealtld", "", false},
		{"https://co.uk", "", false},
		{"https://acme.github.io/team", "github.io", true},
		{"https://jane.blogspot.com/post", "blogspot.com", true},
		{"https://github.io", "github.io", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := RootDomain(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name     string
		url      string
		official string
		want     model.Category
	}{
		{"undeterminable", "garbage text", "acme.com", model.CategoryOther},
		{"official", "https://investors.acme.com/leadership", "acme.com", model.CategoryOfficial},
		{"official wins over wikipedia", "https://en.wikipedia.org/wiki/Acme", "wikipedia.org", model.CategoryOfficial},
		{"wikipedia", "https://en.wikipedia.org/wiki/Acme", "acme.com", model.CategoryWikipedia},
		{"linkedin", "https://www.linkedin.com/in/jane", "", model.CategoryLinkedIn},
		{"news", "https://www.reuters.com/business/acme", "", model.CategoryNews},
		{"news co.uk", "https://www.bbc.com/news/acme", "", model.CategoryNews},
		{"other", "https://someblog.net/post", "acme.com", model.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.url, tt.official))
		})
	}
}

func TestClassify_CustomNewsList(t *testing.T) {
	c := NewClassifier([]string{" TechCrunch.com "})
	assert.Equal(t, model.CategoryNews, c.Classify("https://techcrunch.com/a", ""))
	assert.Equal(t, model.CategoryOther, c.Classify("https://reuters.com/a", ""))
}

func TestSources(t *testing.T) {
	c := NewClassifier(nil)
	got := c.Sources([]string{"https://acme.com/about", "bad url"}, "acme.com")

	assert.Equal(t, []model.ScoredSource{
		{URL: "https://acme.com/about", RootDomain: "acme.com", Category: model.CategoryOfficial},
		{URL: "bad url", Category: model.CategoryOther},
	}, got)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) Search(ctx context.Context, query string, maxResults int) ([]search.Result, error) {
	args := m.Called(ctx, query, maxResults)
	results, _ := args.Get(0).([]search.Result)
	return results, args.Error(1)
}

func TestOfficialDomain_FirstResolvableResult(t *testing.T) {
	s := new(mockSearch)
	s.On("Search", mock.Anything, "Acme Corp official website", 5).Return([]search.Result{
		{URL: ""},
		{URL: "not a url"},
		{URL: "https://www.acmecorp.com/"},
		{URL: "https://en.wikipedia.org/wiki/Acme"},
	}, nil)

	d := NewDiscoverer(s)
	assert.Equal(t, "acmecorp.com", d.OfficialDomain(context.Background(), " Acme Corp "))
	s.AssertExpectations(t)
}

func TestOfficialDomain_OnlyFirstFive(t *testing.T) {
	s := new(mockSearch)
	s.On("Search", mock.Anything, "Acme official website", 5).Return([]search.Result{
		{URL: "x"}, {URL: "y"}, {URL: "z"}, {URL: "w"}, {URL: "v"},
		{URL: "https://acme.com"},
	}, nil)

	d := NewDiscoverer(s)
	assert.Empty(t, d.OfficialDomain(context.Background(), "Acme"))
}

func TestOfficialDomain_FailsSoft(t *testing.T) {
	s := new(mockSearch)
	s.On("Search", mock.Anything, mock.Anything, 5).Return(nil, errors.New("search down"))

	d := NewDiscoverer(s)
	assert.Empty(t, d.OfficialDomain(context.Background(), "Acme"))

	var nilD *Discoverer
	assert.Empty(t, nilD.OfficialDomain(context.Background(), "Acme"))
	assert.Empty(t, NewDiscoverer(nil).OfficialDomain(context.Background(), "Acme"))
}
