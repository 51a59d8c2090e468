package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/role-scout/internal/agent"
	"github.com/sells-group/role-scout/internal/config"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	chdirTemp(t)
	c, err := config.Load()
	require.NoError(t, err)
	c.Cache.Backend = "none"
	c.Perplexity.Key = "pplx-test"
	c.Anthropic.Key = "sk-test"
	c.Gemini.Key = "gm-test"
	return c
}

func TestNewSearchProvider_Disabled(t *testing.T) {
	c := loadTestConfig(t)
	for _, p := range []string{"", "none", "NONE"} {
		c.Search.Provider = p
		assert.Nil(t, newSearchProvider(c), "provider %q", p)
	}
}

func TestNewSearchProvider_Jina(t *testing.T) {
	c := loadTestConfig(t)
	c.Search.Provider = "jina"
	assert.NotNil(t, newSearchProvider(c))
}

func TestBuildAgent_Providers(t *testing.T) {
	c := loadTestConfig(t)
	ctx := context.Background()

	for _, p := range []string{"perplexity", "anthropic", "Gemini"} {
		a, err := buildAgent(ctx, c, config.AgentConfig{Provider: p}, agent.Researcher, nil)
		require.NoError(t, err, p)
		assert.NotNil(t, a, p)
	}
}

func TestBuildAgent_Unknown(t *testing.T) {
	c := loadTestConfig(t)
	_, err := buildAgent(context.Background(), c, config.AgentConfig{Provider: "openai"}, agent.Validator, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestNewLookupEnv_NoCache(t *testing.T) {
	c := loadTestConfig(t)
	c.Search.Provider = "none"

	env, err := newLookupEnv(context.Background(), c)
	require.NoError(t, err)
	defer env.Close()

	assert.Nil(t, env.Store)
	assert.NotNil(t, env.Results)
	assert.NotNil(t, env.Orchestrator)
}

func TestNewLookupEnv_SQLite(t *testing.T) {
	c := loadTestConfig(t)
	c.Search.Provider = "none"
	c.Cache.Backend = "SQLite"
	c.Cache.SQLitePath = "cache.db"

	env, err := newLookupEnv(context.Background(), c)
	require.NoError(t, err)
	defer env.Close()

	assert.NotNil(t, env.Store)
}

func TestNewLookupEnv_BadAgent(t *testing.T) {
	c := loadTestConfig(t)
	c.Validation.Provider = "unknown"

	_, err := newLookupEnv(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation agent")
}

func TestOpenStore_Unreachable(t *testing.T) {
	c := loadTestConfig(t)
	c.Cache.Backend = "redis"
	c.Cache.RedisURL = "not a url"
	assert.Nil(t, openStore(context.Background(), c))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "  ", "b", "c"))
	assert.Empty(t, firstNonEmpty())
}
