package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "sponsormatch.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 100, cfg.Store.ScanPageSize)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedding.BaseURL)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.True(t, cfg.Embedding.Cache)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, int64(2048), cfg.Anthropic.MaxTokens)
	assert.InDelta(t, 0.3, cfg.Match.RegionWeight, 0.001)
	assert.InDelta(t, 0.3, cfg.Match.ValuationWeight, 0.001)
	assert.InDelta(t, 0.2, cfg.Match.DemographicsWeight, 0.001)
	assert.InDelta(t, 0.1, cfg.Match.QueryWeight, 0.001)
	assert.InDelta(t, 0.05, cfg.Match.ValuesWeight, 0.001)
	assert.InDelta(t, 0.05, cfg.Match.ReachWeight, 0.001)
	assert.InDelta(t, 2000, cfg.Feature.FranchiseTier3Millions, 0.001)
	assert.InDelta(t, 200, cfg.Feature.FranchiseTier2Millions, 0.001)
	assert.InDelta(t, 120, cfg.Feature.TicketTier3, 0.001)
	assert.InDelta(t, 100, cfg.Feature.TicketTier2, 0.001)
	assert.Equal(t, 3, cfg.Social.MaxAttempts)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/teams
log:
  level: debug
  format: console
server:
  port: 9090
match:
  region_weight: 0.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/teams", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 0.5, cfg.Match.RegionWeight, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Store.ScanPageSize)
	assert.InDelta(t, 0.3, cfg.Match.ValuationWeight, 0.001)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("SPONSORMATCH_STORE_DRIVER", "postgres")
	t.Setenv("SPONSORMATCH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("SPONSORMATCH_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with enough defaults populated for
// validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "sponsormatch.db"
	cfg.Store.ScanPageSize = 100
	cfg.Embedding.Dimensions = 1536
	cfg.Social.MaxAttempts = 3
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateSearch_AllPresent(t *testing.T) {
	cfg := validDefaults()
	cfg.Embedding.APIKey = "sk-key"

	assert.NoError(t, cfg.Validate("search"))
}

func TestValidateSearch_MissingAPIKey(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("search")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embedding.api_key is required")
}

func TestValidateAnalyze_MissingKey(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")
}

func TestValidateIngest_StoreOnly(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("ingest"))

	cfg.Store.DatabaseURL = ""
	err := cfg.Validate("ingest")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")
}

func TestValidateSocialsync_MissingBaseURL(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("socialsync")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "social.stats_base_url is required")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Embedding.APIKey = "sk-key"
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_AnthropicOptional(t *testing.T) {
	cfg := validDefaults()
	cfg.Embedding.APIKey = "sk-key"

	// No anthropic key: serve still validates, AI routes degrade at runtime.
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateBadDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "oracle"

	err := cfg.Validate("status")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
