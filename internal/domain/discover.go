package domain

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/search"
)

const discoveryMaxResults = 5

// Discoverer resolves a company's official root domain through web search.
type Discoverer struct {
	search search.Provider
}

// NewDiscoverer returns a Discoverer. A nil provider disables discovery.
func NewDiscoverer(p search.Provider) *Discoverer {
	return &Discoverer{search: p}
}

// OfficialDomain searches for "<company> official website" and returns the
// root domain of the first of up to five results that has one. Any search
// failure yields "".
func (d *Discoverer) OfficialDomain(ctx context.Context, company string) string {
	company = strings.TrimSpace(company)
	if d == nil || d.search == nil || company == "" {
		return ""
	}

	results, err := d.search.Search(ctx, company+" official website", discoveryMaxResults)
	if err != nil {
		zap.L().Debug("domain: official domain discovery unavailable",
			zap.String("company", company),
			zap.Error(err),
		)
		return ""
	}

	for i, r := range results {
		if i >= discoveryMaxResults {
			break
		}
		if root, ok := RootDomain(r.URL); ok {
			return root
		}
	}
	return ""
}
