package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/role-scout/internal/domain"
	"github.com/sells-group/role-scout/internal/roles"
	"github.com/sells-group/role-scout/internal/scoring"
	"github.com/sells-group/role-scout/pkg/perplexity"
)

// Config holds the full application configuration.
type Config struct {
	Lookup     LookupConfig     `yaml:"lookup" mapstructure:"lookup"`
	Scoring    scoring.Weights  `yaml:"scoring" mapstructure:"scoring"`
	Roles      roles.Config     `yaml:"roles" mapstructure:"roles"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Research   AgentConfig      `yaml:"research" mapstructure:"research"`
	Validation AgentConfig      `yaml:"validation" mapstructure:"validation"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// LookupConfig configures the research/validation retry loop.
type LookupConfig struct {
	MaxRetries       int     `yaml:"max_retries" mapstructure:"max_retries"`
	Threshold        float64 `yaml:"threshold" mapstructure:"threshold"`
	RoundTimeoutSecs int     `yaml:"round_timeout_secs" mapstructure:"round_timeout_secs"`
}

// RoundTimeout returns the per-round deadline, zero when unset.
func (c LookupConfig) RoundTimeout() time.Duration {
	return time.Duration(c.RoundTimeoutSecs) * time.Second
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend         string `yaml:"backend" mapstructure:"backend"`
	TTLHours        int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
	RedisURL        string `yaml:"redis_url" mapstructure:"redis_url"`
	SQLitePath      string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	PostgresURL     string `yaml:"postgres_url" mapstructure:"postgres_url"`
	MaxConns        int32  `yaml:"max_conns" mapstructure:"max_conns"`
	DownloadTTLMins int    `yaml:"download_ttl_mins" mapstructure:"download_ttl_mins"`
}

// TTL returns the lookup result TTL.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// DownloadTTL returns how long batch downloads stay available.
func (c CacheConfig) DownloadTTL() time.Duration {
	return time.Duration(c.DownloadTTLMins) * time.Minute
}

// SearchConfig configures the web search provider used for official
// domain discovery and agent context.
type SearchConfig struct {
	Provider            string   `yaml:"provider" mapstructure:"provider"`
	MaxResults          int      `yaml:"max_results" mapstructure:"max_results"`
	Retries             int      `yaml:"retries" mapstructure:"retries"`
	InitialBackoffMs    int      `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs        int      `yaml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	BreakerThreshold    int      `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerCooldownSecs int      `yaml:"breaker_cooldown_secs" mapstructure:"breaker_cooldown_secs"`
	NewsDomains         []string `yaml:"news_domains" mapstructure:"news_domains"`
}

// AgentConfig selects the LLM provider behind the research or validation
// agent. An empty model falls back to the provider's default model.
type AgentConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	// Recency limits web search to hour, day, week, month or year.
	Recency string `yaml:"recency" mapstructure:"recency"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// JinaConfig holds Jina search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// NotionConfig holds Notion API credentials and the lookup queue database.
type NotionConfig struct {
	Token      string `yaml:"token" mapstructure:"token"`
	DatabaseID string `yaml:"database_id" mapstructure:"database_id"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	MaxRows     int     `yaml:"max_rows" mapstructure:"max_rows"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROLESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("lookup.max_retries", 2)
	v.SetDefault("lookup.threshold", 0.7)
	v.SetDefault("lookup.round_timeout_secs", 0)

	w := scoring.DefaultWeights()
	v.SetDefault("scoring.official", w.Official)
	v.SetDefault("scoring.wikipedia", w.Wikipedia)
	v.SetDefault("scoring.news", w.News)
	v.SetDefault("scoring.linkedin", w.LinkedIn)
	v.SetDefault("scoring.other", w.Other)
	v.SetDefault("scoring.per_domain_bonus", w.PerDomainBonus)
	v.SetDefault("scoring.bonus_cap", w.BonusCap)
	v.SetDefault("scoring.title_bonus", w.TitleBonus)
	v.SetDefault("scoring.company_bonus", w.CompanyBonus)

	rc := roles.DefaultConfig()
	v.SetDefault("roles.aliases", rc.Aliases)
	v.SetDefault("roles.seniority_keywords", rc.SeniorityKeywords)

	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.sqlite_path", "role-scout.db")
	v.SetDefault("cache.max_conns", 5)
	v.SetDefault("cache.download_ttl_mins", 60)

	v.SetDefault("search.provider", "jina")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.retries", 3)
	v.SetDefault("search.initial_backoff_ms", 300)
	v.SetDefault("search.max_backoff_ms", 5000)
	v.SetDefault("search.breaker_threshold", 5)
	v.SetDefault("search.breaker_cooldown_secs", 30)
	v.SetDefault("search.news_domains", append([]string(nil), domain.DefaultNewsDomains...))

	v.SetDefault("research.provider", "perplexity")
	v.SetDefault("research.temperature", 0.2)
	v.SetDefault("research.max_tokens", 1024)
	v.SetDefault("validation.provider", "perplexity")
	v.SetDefault("validation.temperature", 0.2)
	v.SetDefault("validation.max_tokens", 1024)

	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")

	v.SetDefault("batch.concurrency", 3)
	v.SetDefault("batch.rate_per_sec", 0)
	v.SetDefault("batch.max_rows", 0)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

var (
	validProviders = map[string]bool{"perplexity": true, "anthropic": true, "gemini": true}
	validBackends  = map[string]bool{"": true, "none": true, "redis": true, "sqlite": true, "postgres": true}
)

// Validate checks ranges and enumerations that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Lookup.MaxRetries < 0 {
		return eris.Errorf("config: lookup.max_retries must be >= 0, got %d", c.Lookup.MaxRetries)
	}
	if c.Lookup.Threshold < 0 || c.Lookup.Threshold > 1 {
		return eris.Errorf("config: lookup.threshold must be in [0,1], got %.2f", c.Lookup.Threshold)
	}
	if err := c.Scoring.Validate(); err != nil {
		return eris.Wrap(err, "config: scoring")
	}
	for name, a := range map[string]AgentConfig{"research": c.Research, "validation": c.Validation} {
		if !validProviders[strings.ToLower(a.Provider)] {
			return eris.Errorf("config: %s.provider %q is not one of perplexity, anthropic, gemini", name, a.Provider)
		}
	}
	if !perplexity.ValidRecency(c.Perplexity.Recency) {
		return eris.Errorf("config: perplexity.recency %q is not one of %s", c.Perplexity.Recency, strings.Join(perplexity.Recencies, ", "))
	}
	for _, d := range c.Search.NewsDomains {
		if !strings.Contains(strings.TrimSpace(d), ".") {
			return eris.Errorf("config: search.news_domains entry %q must be a full domain such as reuters.com", d)
		}
	}
	if !validBackends[strings.ToLower(c.Cache.Backend)] {
		return eris.Errorf("config: cache.backend %q is not supported", c.Cache.Backend)
	}
	if c.Batch.Concurrency < 1 {
		return eris.Errorf("config: batch.concurrency must be >= 1, got %d", c.Batch.Concurrency)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
