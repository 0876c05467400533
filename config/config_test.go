package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, `
[client]
base_url = "http://translate.internal:9000"
debounce_ms = 250
language = "german"

[server]
engine = "lambda"
cache = "redis"

[lambda]
function_name = "translator-opus"
region = "eu-west-1"

[log]
level = "debug"
format = "json"
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	assert.Equal(t, "http://translate.internal:9000", cfg.Client.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.Debounce())
	assert.Equal(t, "german", cfg.Client.Language)
	assert.Equal(t, "lambda", cfg.Server.Engine)
	assert.Equal(t, "translator-opus", cfg.Lambda.FunctionName)
	assert.Equal(t, "json", cfg.Log.Format)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout())
	assert.Equal(t, 2*time.Second, cfg.Client.CopiedDuration())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "livetl:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 10000, cfg.Server.CacheMaxEntries)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[client\nbase_url = ")

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFrom_FirstExistingWins(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.toml")
	third := filepath.Join(dir, "third.toml")
	require.NoError(t, os.WriteFile(second, []byte("[server]\naddr = \":9001\"\n"), 0o600))
	require.NoError(t, os.WriteFile(third, []byte("[server]\naddr = \":9002\"\n"), 0o600))

	cfg, used, err := LoadFrom([]string{filepath.Join(dir, "first.toml"), second, third})
	require.NoError(t, err)
	assert.Equal(t, second, used)
	assert.Equal(t, ":9001", cfg.Server.Addr)
}

func TestLoadFrom_DefaultsWhenNoFile(t *testing.T) {
	cfg, used, err := LoadFrom([]string{filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)
	assert.Empty(t, used)

	want := Default()
	want.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	assert.Equal(t, want, *cfg)
}

func TestLoad_OpenAIKeyFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, _, err := Load(writeConfig(t, "[server]\nengine = \"openai\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileKeyWinsOverEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, _, err := Load(writeConfig(t, "[openai]\napi_key = \"sk-file\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, FileName, paths[0])
	assert.Equal(t, "/etc/livetl/livetl.toml", paths[len(paths)-1])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Client.BaseURL = "" }},
		{"zero debounce", func(c *Config) { c.Client.DebounceMs = 0 }},
		{"negative timeout", func(c *Config) { c.Client.TimeoutMs = -1 }},
		{"unknown language", func(c *Config) { c.Client.Language = "klingon" }},
		{"unknown engine", func(c *Config) { c.Server.Engine = "deepl" }},
		{"openai without key", func(c *Config) { c.Server.Engine = "openai"; c.OpenAI.APIKey = "" }},
		{"lambda without function", func(c *Config) { c.Server.Engine = "lambda" }},
		{"unknown cache", func(c *Config) { c.Server.Cache = "disk" }},
		{"redis without url", func(c *Config) { c.Server.Cache = "redis"; c.Redis.URL = "" }},
		{"negative burst", func(c *Config) { c.Server.Burst = -1 }},
		{"negative cache max entries", func(c *Config) { c.Server.CacheMaxEntries = -1 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidate_Default(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_CacheMaxEntries(t *testing.T) {
	cfg, _, err := Load(writeConfig(t, "[server]\ncache_max_entries = 250\n"))
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Server.CacheMaxEntries)
}

func TestValidateClient_IgnoresServerSection(t *testing.T) {
	cfg := Default()
	cfg.Server.Engine = "openai"
	cfg.OpenAI.APIKey = ""

	assert.NoError(t, cfg.ValidateClient())
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestValidateClient(t *testing.T) {
	cfg := Default()
	cfg.Client.Language = "klingon"
	assert.ErrorIs(t, cfg.ValidateClient(), ErrInvalidConfig)

	cfg = Default()
	cfg.Log.Format = "xml"
	assert.ErrorIs(t, cfg.ValidateClient(), ErrInvalidConfig)
}
