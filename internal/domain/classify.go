package domain

import (
	"strings"

	"github.com/sells-group/role-scout/internal/model"
)

// DefaultNewsDomains is the allowlist of reputable news outlets.
var DefaultNewsDomains = []string{
	"bbc.com",
	"reuters.com",
	"forbes.com",
	"cnn.com",
	"nytimes.com",
	"bloomberg.com",
}

// Classifier assigns a credibility category to source URLs.
type Classifier struct {
	newsDomains []string
}

// NewClassifier builds a classifier over the given news allowlist. A nil
// list uses DefaultNewsDomains.
func NewClassifier(newsDomains []string) Classifier {
	if newsDomains == nil {
		newsDomains = DefaultNewsDomains
	}
	news := make([]string, 0, len(newsDomains))
	for _, d := range newsDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			news = append(news, d)
		}
	}
	return Classifier{newsDomains: news}
}

// Classify returns the category of rawURL given the company's official root
// domain, which may be empty when unknown.
func (c Classifier) Classify(rawURL, official string) model.Category {
	root, ok := RootDomain(rawURL)
	switch {
	case !ok:
		return model.CategoryOther
	case official != "" && root == strings.ToLower(official):
		return model.CategoryOfficial
	case strings.Contains(root, "wikipedia.org"):
		return model.CategoryWikipedia
	case strings.Contains(root, "linkedin.com"):
		return model.CategoryLinkedIn
	case c.isNews(root):
		return model.CategoryNews
	}
	return model.CategoryOther
}

// Sources classifies every URL, keeping input order.
func (c Classifier) Sources(urls []string, official string) []model.ScoredSource {
	out := make([]model.ScoredSource, 0, len(urls))
	for _, u := range urls {
		root, _ := RootDomain(u)
		out = append(out, model.ScoredSource{
			URL:        u,
			RootDomain: root,
			Category:   c.Classify(u, official),
		})
	}
	return out
}

func (c Classifier) isNews(root string) bool {
	for _, d := range c.newsDomains {
		if strings.Contains(root, d) {
			return true
		}
	}
	return false
}
