// Package config loads livetl settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ZaguanLabs/livetl"
)

// FileName is the config file looked up in every search path.
const FileName = "livetl.toml"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid config")
)

// Config is the root configuration.
type Config struct {
	Client Client `koanf:"client"`
	Server Server `koanf:"server"`
	OpenAI OpenAI `koanf:"openai"`
	Lambda Lambda `koanf:"lambda"`
	Redis  Redis  `koanf:"redis"`
	Log    Log    `koanf:"log"`
}

// Client configures the interactive translate session.
type Client struct {
	BaseURL          string `koanf:"base_url"`
	TimeoutMs        int    `koanf:"timeout_ms"`
	DebounceMs       int    `koanf:"debounce_ms"`
	CopiedMs         int    `koanf:"copied_ms"`
	Language         string `koanf:"language"`
	SpeechCommand    string `koanf:"speech_command"`    // Empty means autodetect
	ClipboardCommand string `koanf:"clipboard_command"` // Empty means autodetect
}

// Server configures the translation endpoint and its engine stack.
type Server struct {
	Addr            string `koanf:"addr"`
	Engine          string `koanf:"engine"` // openai, lambda or mock
	RateLimitRPM    int    `koanf:"rate_limit_rpm"`
	Burst           int    `koanf:"burst"`
	RetryMax        int    `koanf:"retry_max"`
	Cache           string `koanf:"cache"`             // none, memory or redis
	CacheTTL        int    `koanf:"cache_ttl"`         // Seconds, 0 means no expiry
	CacheMaxEntries int    `koanf:"cache_max_entries"` // Memory cache bound, 0 means unbounded
}

type OpenAI struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type Lambda struct {
	FunctionName string `koanf:"function_name"`
	Region       string `koanf:"region"`
}

type Redis struct {
	URL       string `koanf:"url"`
	KeyPrefix string `koanf:"key_prefix"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	return Config{
		Client: Client{
			BaseURL:    "http://localhost:8080",
			TimeoutMs:  10000,
			DebounceMs: int(livetl.DefaultDebounce / time.Millisecond),
			CopiedMs:   int(livetl.DefaultCopiedDuration / time.Millisecond),
			Language:   livetl.DefaultLanguage,
		},
		Server: Server{
			Addr:            ":8080",
			Engine:          "mock",
			RateLimitRPM:    60,
			Burst:           10,
			RetryMax:        2,
			Cache:           "memory",
			CacheTTL:        3600,
			CacheMaxEntries: 10000,
		},
		OpenAI: OpenAI{Model: "gpt-4o-mini"},
		Redis:  Redis{URL: "redis://localhost:6379/0", KeyPrefix: "livetl:"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// SearchPaths lists the files Load tries, in order.
func SearchPaths() []string {
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "livetl", FileName))
	}
	return append(paths, filepath.Join("/etc", "livetl", FileName))
}

// Load reads the config. An explicit path must exist; otherwise the first
// file found in SearchPaths is used, and defaults apply when none exists.
// It returns the path actually read, or "" when running on defaults.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, explicit)
		}
		return LoadFrom([]string{explicit})
	}
	return LoadFrom(SearchPaths())
}

// LoadFrom loads the first existing file of paths on top of Default.
func LoadFrom(paths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedPath string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error loading %s: %w", path, err)
		}
		usedPath = path
		break
	}

	config := Default()
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.OpenAI.APIKey == "" {
		config.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &config, usedPath, nil
}

// Validate checks ranges and enumerations of every section.
func (c *Config) Validate() error {
	if err := c.ValidateClient(); err != nil {
		return err
	}
	return c.validateServer()
}

// ValidateClient checks only what the interactive session uses.
func (c *Config) ValidateClient() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("%w: client.base_url is required", ErrInvalidConfig)
	}
	if c.Client.TimeoutMs <= 0 || c.Client.DebounceMs <= 0 || c.Client.CopiedMs <= 0 {
		return fmt.Errorf("%w: client durations must be positive", ErrInvalidConfig)
	}
	if _, ok := livetl.LookupLanguage(c.Client.Language); !ok {
		return fmt.Errorf("%w: unknown client.language %q", ErrInvalidConfig, c.Client.Language)
	}
	return c.validateLog()
}

func (c *Config) validateServer() error {
	switch c.Server.Engine {
	case "mock":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: openai.api_key or OPENAI_API_KEY is required", ErrInvalidConfig)
		}
	case "lambda":
		if c.Lambda.FunctionName == "" {
			return fmt.Errorf("%w: lambda.function_name is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown server.engine %q", ErrInvalidConfig, c.Server.Engine)
	}

	switch c.Server.Cache {
	case "none", "memory":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: redis.url is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown server.cache %q", ErrInvalidConfig, c.Server.Cache)
	}

	if c.Server.RateLimitRPM < 0 || c.Server.Burst < 0 || c.Server.RetryMax < 0 ||
		c.Server.CacheTTL < 0 || c.Server.CacheMaxEntries < 0 {
		return fmt.Errorf("%w: server limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateLog() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}

// Timeout is the client request timeout.
func (c Client) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Debounce is the quiet period before a request.
func (c Client) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// CopiedDuration is how long the copied indicator stays on.
func (c Client) CopiedDuration() time.Duration {
	return time.Duration(c.CopiedMs) * time.Millisecond
}

// TTL is the cache entry lifetime.
func (s Server) TTL() time.Duration {
	return time.Duration(s.CacheTTL) * time.Second
}
