// Package scoring computes a confidence score for a set of source URLs.
package scoring

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/role-scout/internal/domain"
	"github.com/sells-group/role-scout/internal/model"
)

// Weights holds the per-category credibility weights and bonuses.
type Weights struct {
	Official  float64 `yaml:"official" mapstructure:"official"`
	Wikipedia float64 `yaml:"wikipedia" mapstructure:"wikipedia"`
	News      float64 `yaml:"news" mapstructure:"news"`
	LinkedIn  float64 `yaml:"linkedin" mapstructure:"linkedin"`
	Other     float64 `yaml:"other" mapstructure:"other"`

	// PerDomainBonus is added for each distinct root domain beyond the
	// first, up to BonusCap.
	PerDomainBonus float64 `yaml:"per_domain_bonus" mapstructure:"per_domain_bonus"`
	BonusCap       float64 `yaml:"bonus_cap" mapstructure:"bonus_cap"`
	TitleBonus     float64 `yaml:"title_bonus" mapstructure:"title_bonus"`
	CompanyBonus   float64 `yaml:"company_bonus" mapstructure:"company_bonus"`
}

// DefaultWeights keeps a lone official source below the 0.7 acceptance
// threshold.
func DefaultWeights() Weights {
	return Weights{
		Official:       0.55,
		Wikipedia:      0.35,
		News:           0.25,
		LinkedIn:       0.15,
		Other:          0.05,
		PerDomainBonus: 0.08,
		BonusCap:       0.20,
		TitleBonus:     0.05,
		CompanyBonus:   0.05,
	}
}

// Validate checks every weight is within [0, 1].
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"official":         w.Official,
		"wikipedia":        w.Wikipedia,
		"news":             w.News,
		"linkedin":         w.LinkedIn,
		"other":            w.Other,
		"per_domain_bonus": w.PerDomainBonus,
		"bonus_cap":        w.BonusCap,
		"title_bonus":      w.TitleBonus,
		"company_bonus":    w.CompanyBonus,
	} {
		if v < 0 || v > 1 {
			return eris.Errorf("scoring: weight %s must be in [0,1], got %.2f", name, v)
		}
	}
	return nil
}

// Weight returns the credibility weight of a category.
func (w Weights) Weight(c model.Category) float64 {
	switch c {
	case model.CategoryOfficial:
		return w.Official
	case model.CategoryWikipedia:
		return w.Wikipedia
	case model.CategoryNews:
		return w.News
	case model.CategoryLinkedIn:
		return w.LinkedIn
	}
	return w.Other
}

// OfficialDomainFinder resolves a company's official root domain, returning
// "" when unknown.
type OfficialDomainFinder interface {
	OfficialDomain(ctx context.Context, company string) string
}

// Scorer combines classification, corroboration and match bonuses.
type Scorer struct {
	weights    Weights
	classifier domain.Classifier
	finder     OfficialDomainFinder
}

// New creates a Scorer. A nil finder means no URL is ever official.
func New(w Weights, c domain.Classifier, finder OfficialDomainFinder) *Scorer {
	return &Scorer{weights: w, classifier: c, finder: finder}
}

// Score resolves the official domain once, then computes confidence.
func (s *Scorer) Score(ctx context.Context, urls []string, company string, titleMatch, companyMatch bool) float64 {
	official := ""
	if s.finder != nil {
		official = s.finder.OfficialDomain(ctx, company)
	}
	return s.Compute(urls, official, titleMatch, companyMatch)
}

// Compute is the deterministic part of Score for a known official domain.
func (s *Scorer) Compute(urls []string, official string, titleMatch, companyMatch bool) float64 {
	w := s.weights
	total := 0.0
	distinct := map[string]struct{}{}

	for _, src := range s.classifier.Sources(urls, official) {
		total += w.Weight(src.Category)
		if src.RootDomain != "" {
			distinct[src.RootDomain] = struct{}{}
		}
	}

	if n := len(distinct); n > 1 {
		total += math.Min(w.BonusCap, w.PerDomainBonus*float64(n-1))
	}
	if titleMatch {
		total += w.TitleBonus
	}
	if companyMatch {
		total += w.CompanyBonus
	}

	total = math.Max(0, math.Min(1, total))
	return math.Round(total*100) / 100
}

// Sources exposes per-URL classification for logging and reports.
func (s *Scorer) Sources(urls []string, official string) []model.ScoredSource {
	return s.classifier.Sources(urls, official)
}
