package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Match     MatchConfig     `yaml:"match" mapstructure:"match"`
	Feature   FeatureConfig   `yaml:"feature" mapstructure:"feature"`
	Social    SocialConfig    `yaml:"social" mapstructure:"social"`
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the team store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	// ScanPageSize caps rows fetched per query during the scoring scan.
	// Mirrors the backing store's per-query payload limit.
	ScanPageSize int `yaml:"scan_page_size" mapstructure:"scan_page_size"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Model      string `yaml:"model" mapstructure:"model"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
	Cache      bool   `yaml:"cache" mapstructure:"cache"`
}

// AnthropicConfig holds Anthropic API settings for analysis and campaigns.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MatchConfig holds the similarity scoring weights. The weights are a
// tuning surface, not a contract; a YAML profile (profile_path) can
// override them per run.
type MatchConfig struct {
	RegionWeight       float64 `yaml:"region_weight" mapstructure:"region_weight"`
	QueryWeight        float64 `yaml:"query_weight" mapstructure:"query_weight"`
	ValuesWeight       float64 `yaml:"values_weight" mapstructure:"values_weight"`
	ValuationWeight    float64 `yaml:"valuation_weight" mapstructure:"valuation_weight"`
	DemographicsWeight float64 `yaml:"demographics_weight" mapstructure:"demographics_weight"`
	ReachWeight        float64 `yaml:"reach_weight" mapstructure:"reach_weight"`
	ProfilePath        string  `yaml:"profile_path" mapstructure:"profile_path"`
}

// FeatureConfig holds the value-tier thresholds used by preprocessing.
// Franchise thresholds are in millions of dollars, ticket thresholds in
// dollars.
type FeatureConfig struct {
	FranchiseTier3Millions float64 `yaml:"franchise_tier3_millions" mapstructure:"franchise_tier3_millions"`
	FranchiseTier2Millions float64 `yaml:"franchise_tier2_millions" mapstructure:"franchise_tier2_millions"`
	TicketTier3            float64 `yaml:"ticket_tier3" mapstructure:"ticket_tier3"`
	TicketTier2            float64 `yaml:"ticket_tier2" mapstructure:"ticket_tier2"`
}

// SocialConfig configures the social stats refresh job.
type SocialConfig struct {
	StatsBaseURL      string  `yaml:"stats_base_url" mapstructure:"stats_base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// IngestConfig configures raw team ingestion. Encoding names a source
// charset (per IANA, e.g. "windows-1252") for CSV artifacts that are
// not UTF-8; empty means UTF-8.
type IngestConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	Encoding          string  `yaml:"encoding" mapstructure:"encoding"`
}

// SearchConfig configures search result caching.
type SearchConfig struct {
	CacheEnabled    bool `yaml:"cache_enabled" mapstructure:"cache_enabled"`
	CacheTTLMinutes int  `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
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
	v.AddConfigPath("$HOME/.sponsormatch")
	v.AddConfigPath("/etc/sponsormatch")

	// Environment
	v.SetEnvPrefix("SPONSORMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "sponsormatch.db")
	v.SetDefault("store.scan_page_size", 100)
	v.SetDefault("embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("embedding.dimensions", 1536)
	v.SetDefault("embedding.cache", true)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("match.region_weight", 0.3)
	v.SetDefault("match.query_weight", 0.1)
	v.SetDefault("match.values_weight", 0.05)
	v.SetDefault("match.valuation_weight", 0.3)
	v.SetDefault("match.demographics_weight", 0.2)
	v.SetDefault("match.reach_weight", 0.05)
	v.SetDefault("feature.franchise_tier3_millions", 2000)
	v.SetDefault("feature.franchise_tier2_millions", 200)
	v.SetDefault("feature.ticket_tier3", 120)
	v.SetDefault("feature.ticket_tier2", 100)
	v.SetDefault("social.requests_per_second", 2)
	v.SetDefault("social.max_attempts", 3)
	v.SetDefault("ingest.requests_per_second", 4)
	v.SetDefault("ingest.user_agent", "sponsormatch/1.0")
	v.SetDefault("search.cache_enabled", true)
	v.SetDefault("search.cache_ttl_minutes", 60)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the configuration for a given command mode. Missing
// operator configuration is an error here, before any work starts.
func (c *Config) Validate(mode string) error {
	var missing []string

	// Store checks apply to every mode.
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		missing = append(missing, fmt.Sprintf("store.driver must be sqlite or postgres (got %q)", c.Store.Driver))
	}
	if c.Store.DatabaseURL == "" {
		missing = append(missing, "store.database_url is required")
	}
	if c.Store.ScanPageSize <= 0 {
		missing = append(missing, "store.scan_page_size must be > 0")
	}

	switch mode {
	case "ingest", "export", "status":
		// Store-only modes.

	case "preprocess", "search":
		if c.Embedding.APIKey == "" {
			missing = append(missing, "embedding.api_key is required")
		}
		if c.Embedding.Dimensions <= 0 {
			missing = append(missing, "embedding.dimensions must be > 0")
		}

	case "analyze", "campaign":
		if c.Anthropic.Key == "" {
			missing = append(missing, "anthropic.key is required")
		}

	case "socialsync":
		if c.Social.StatsBaseURL == "" {
			missing = append(missing, "social.stats_base_url is required")
		}
		if c.Social.MaxAttempts <= 0 {
			missing = append(missing, "social.max_attempts must be > 0")
		}

	case "serve":
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if c.Embedding.APIKey == "" {
			missing = append(missing, "embedding.api_key is required")
		}
		// Anthropic key is optional in serve mode; the analysis routes
		// answer 503 without it.

	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.Errorf("config: invalid for %s mode: %s", mode, strings.Join(missing, "; "))
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
