package main

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/agent"
	"github.com/sells-group/role-scout/internal/cache"
	"github.com/sells-group/role-scout/internal/config"
	"github.com/sells-group/role-scout/internal/domain"
	"github.com/sells-group/role-scout/internal/lookup"
	"github.com/sells-group/role-scout/internal/resilience"
	"github.com/sells-group/role-scout/internal/roles"
	"github.com/sells-group/role-scout/internal/scoring"
	"github.com/sells-group/role-scout/internal/search"
	anthropicpkg "github.com/sells-group/role-scout/pkg/anthropic"
	"github.com/sells-group/role-scout/pkg/jina"
	"github.com/sells-group/role-scout/pkg/perplexity"
)

// lookupEnv holds the initialized store, cache and orchestrator needed by
// the lookup/batch/serve commands.
type lookupEnv struct {
	Store        cache.Store // may be nil
	Results      *cache.ResultCache
	Orchestrator *lookup.Orchestrator
}

// Close releases resources held by the environment.
func (e *lookupEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// openStore opens the configured cache backend. A backend that cannot be
// reached degrades to no cache.
func openStore(ctx context.Context, c *config.Config) cache.Store {
	st, err := cache.Open(ctx, cache.Options{
		Backend:     strings.ToLower(c.Cache.Backend),
		RedisURL:    c.Cache.RedisURL,
		SQLitePath:  c.Cache.SQLitePath,
		PostgresURL: c.Cache.PostgresURL,
		MaxConns:    c.Cache.MaxConns,
	})
	if err != nil {
		zap.L().Warn("cache unavailable, continuing without it",
			zap.String("backend", c.Cache.Backend),
			zap.Error(err),
		)
		return nil
	}
	return st
}

// newSearchProvider builds the web search provider, or nil when disabled.
func newSearchProvider(c *config.Config) search.Provider {
	if strings.EqualFold(c.Search.Provider, "none") || c.Search.Provider == "" {
		return nil
	}

	var opts []jina.Option
	if c.Jina.SearchBaseURL != "" {
		opts = append(opts, jina.WithBaseURL(c.Jina.SearchBaseURL))
	}
	backoff := resilience.BackoffFromMillis(c.Search.Retries, c.Search.InitialBackoffMs, c.Search.MaxBackoffMs)
	backoff.OnRetry = resilience.LogRetries("jina", "search")

	var breaker *resilience.Breaker
	if c.Search.BreakerThreshold > 0 {
		breaker = resilience.NewBreaker("jina-search", c.Search.BreakerThreshold,
			time.Duration(c.Search.BreakerCooldownSecs)*time.Second)
	}
	return search.NewJina(jina.NewClient(c.Jina.Key, opts...), backoff, breaker)
}

// buildAgent creates the agent for one collaborator slot.
func buildAgent(ctx context.Context, c *config.Config, ac config.AgentConfig, persona agent.Persona, sp search.Provider) (agent.Agent, error) {
	switch strings.ToLower(ac.Provider) {
	case agent.ProviderPerplexity:
		model := firstNonEmpty(ac.Model, c.Perplexity.Model)
		client := perplexity.NewClient(c.Perplexity.Key,
			perplexity.WithBaseURL(c.Perplexity.BaseURL),
			perplexity.WithModel(model),
			perplexity.WithRecency(c.Perplexity.Recency),
		)
		return agent.NewPerplexity(client, c.Perplexity.Key, model, ac.Temperature, persona), nil

	case agent.ProviderAnthropic:
		var opts []anthropicpkg.Option
		if c.Anthropic.BaseURL != "" {
			opts = append(opts, anthropicpkg.WithBaseURL(c.Anthropic.BaseURL))
		}
		client := anthropicpkg.NewClient(c.Anthropic.Key, opts...)
		model := firstNonEmpty(ac.Model, c.Anthropic.Model)
		return agent.NewClaude(client, sp, c.Anthropic.Key, model, ac.MaxTokens, ac.Temperature, persona), nil

	case agent.ProviderGemini:
		g, err := agent.NewGemini(ctx, agent.GeminiConfig{
			APIKey:      c.Gemini.Key,
			Model:       firstNonEmpty(ac.Model, c.Gemini.Model),
			BaseURL:     c.Gemini.BaseURL,
			Temperature: ac.Temperature,
		}, persona)
		if err != nil {
			return nil, eris.Wrap(err, "init gemini agent")
		}
		return g, nil
	}
	return nil, eris.Errorf("unknown agent provider %q", ac.Provider)
}

// initLookup wires the cache, search, scoring and agents into an
// Orchestrator. Callers should defer env.Close().
func initLookup(ctx context.Context) (*lookupEnv, error) {
	return newLookupEnv(ctx, cfg)
}

func newLookupEnv(ctx context.Context, c *config.Config) (*lookupEnv, error) {
	sp := newSearchProvider(c)

	research, err := buildAgent(ctx, c, c.Research, agent.Researcher, sp)
	if err != nil {
		return nil, eris.Wrap(err, "research agent")
	}
	validation, err := buildAgent(ctx, c, c.Validation, agent.Validator, sp)
	if err != nil {
		return nil, eris.Wrap(err, "validation agent")
	}

	var finder scoring.OfficialDomainFinder
	if sp != nil {
		finder = domain.NewDiscoverer(sp)
	}
	scorer := scoring.New(c.Scoring, domain.NewClassifier(c.Search.NewsDomains), finder)

	rolesCfg := c.Roles
	if len(rolesCfg.Aliases) == 0 {
		rolesCfg = roles.DefaultConfig()
	}

	env := &lookupEnv{Store: openStore(ctx, c)}
	env.Results = cache.NewResultCache(env.Store, c.Cache.TTL())

	env.Orchestrator = lookup.New(lookup.Config{
		MaxRetries:   c.Lookup.MaxRetries,
		Threshold:    c.Lookup.Threshold,
		RoundTimeout: c.Lookup.RoundTimeout(),
	}, lookup.Deps{
		Research:   research,
		Validation: validation,
		Scorer:     scorer,
		Matcher:    roles.NewMatcher(rolesCfg),
		Cache:      env.Results,
	})

	zap.L().Debug("lookup environment ready",
		zap.String("research", c.Research.Provider),
		zap.String("validation", c.Validation.Provider),
		zap.String("cache", c.Cache.Backend),
		zap.Bool("search", sp != nil),
	)
	return env, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
