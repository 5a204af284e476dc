package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// provider types
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Cache      CacheConfig      `yaml:"cache" json:"cache" jsonschema:"description=Hot cache and fuzzy match configuration"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for recipe generation"`
	Embedding  EmbeddingConfig  `yaml:"embedding" json:"embedding" jsonschema:"description=Embedding model for fuzzy matching"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Page fetch and extraction configuration"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen   string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=90s,description=HTTP server timeout"`
	MaxBatch int           `yaml:"max_batch" json:"max_batch" jsonschema:"default=10,minimum=1,description=Maximum inputs in one parse request"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:recipescope.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// CacheConfig holds redis hot cache and fuzzy lookup settings. Empty redis_addr disables redis.
type CacheConfig struct {
	RedisAddr      string        `yaml:"redis_addr" json:"redis_addr" jsonschema:"description=Redis address as host:port (empty disables the hot cache)"`
	RedisPassword  string        `yaml:"redis_password" json:"redis_password" jsonschema:"description=Redis password"`
	RedisDB        int           `yaml:"redis_db" json:"redis_db" jsonschema:"default=0,description=Redis database number"`
	TTL            time.Duration `yaml:"ttl" json:"ttl" jsonschema:"default=24h,description=Hot cache entry TTL"`
	FuzzyThreshold float64       `yaml:"fuzzy_threshold" json:"fuzzy_threshold" jsonschema:"default=0.55,minimum=0,maximum=1,description=Minimal cosine similarity for a fuzzy match"`
}

// ProviderConfig describes one model provider
type ProviderConfig struct {
	Type        string `yaml:"type" json:"type" jsonschema:"enum=openai,enum=anthropic,description=Provider API type"`
	Endpoint    string `yaml:"endpoint" json:"endpoint" jsonschema:"description=API endpoint (empty for the provider default)"`
	APIKey      string `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or claude-3-5-haiku-latest)"`
	MaxTokens   int    `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4096,description=Maximum tokens in response"`
	UseJSONMode bool   `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (openai only)"`
}

// LLMConfig holds LLM configuration for recipe generation
type LLMConfig struct {
	Primary        ProviderConfig `yaml:"primary" json:"primary" jsonschema:"required,description=Primary provider"`
	Secondary      ProviderConfig `yaml:"secondary" json:"secondary" jsonschema:"description=Fallback provider used when the primary fails (optional)"`
	Temperature    float64        `yaml:"temperature" json:"temperature" jsonschema:"default=0.1,description=Temperature for response generation"`
	Timeout        time.Duration  `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Timeout of a single provider attempt"`
	MaxPromptChars int            `yaml:"max_prompt_chars" json:"max_prompt_chars" jsonschema:"default=100000,description=Prompts above this size are rejected"`
	SystemPrompt   string         `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt override (optional)"`
}

// EmbeddingConfig holds embedding model settings
type EmbeddingConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable embeddings and fuzzy matching"`
	Endpoint string `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey   string `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model    string `yaml:"model" json:"model" jsonschema:"default=text-embedding-3-small,description=Embedding model name"`
	MaxChars int    `yaml:"max_chars" json:"max_chars" jsonschema:"default=8192,description=Input text is cut to this size before embedding"`

	BackfillInterval time.Duration `yaml:"backfill_interval" json:"backfill_interval" jsonschema:"default=10m,description=How often recipes without embedding are embedded"`
	BackfillBatch    int           `yaml:"backfill_batch" json:"backfill_batch" jsonschema:"default=50,minimum=1,description=Recipes embedded per backfill run"`
	BackfillWorkers  int           `yaml:"backfill_workers" json:"backfill_workers" jsonschema:"default=2,minimum=1,description=Concurrent embedding requests during backfill"`
}

// ExtractionConfig holds page fetch and extraction settings
type ExtractionConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Page fetch timeout per attempt"`
	Retries     int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Fetch attempts for retryable failures"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Initial delay between fetch attempts"`
	MaxBodySize int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=5242880,description=Maximum page size in bytes"`
	Concurrency int           `yaml:"concurrency" json:"concurrency" jsonschema:"default=4,minimum=1,description=Parallel parses in a batch"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.SetDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// SetDefaults fills zero values. Used by Load and for the config-less CLI mode.
func (c *Config) SetDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 90 * time.Second
	}
	if c.Server.MaxBatch == 0 {
		c.Server.MaxBatch = 10
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:recipescope.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// cache
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Cache.FuzzyThreshold == 0 {
		c.Cache.FuzzyThreshold = 0.55
	}

	// llm
	if c.LLM.Primary.Type == "" {
		c.LLM.Primary.Type = ProviderOpenAI
	}
	if c.LLM.Secondary.Type == "" && c.LLM.Secondary.Model != "" {
		c.LLM.Secondary.Type = ProviderAnthropic
	}
	for _, p := range []*ProviderConfig{&c.LLM.Primary, &c.LLM.Secondary} {
		if p.MaxTokens == 0 {
			p.MaxTokens = 4096
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.MaxPromptChars == 0 {
		c.LLM.MaxPromptChars = 100_000
	}

	// embedding
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.MaxChars == 0 {
		c.Embedding.MaxChars = 8192
	}
	if c.Embedding.BackfillInterval == 0 {
		c.Embedding.BackfillInterval = 10 * time.Minute
	}
	if c.Embedding.BackfillBatch == 0 {
		c.Embedding.BackfillBatch = 50
	}
	if c.Embedding.BackfillWorkers == 0 {
		c.Embedding.BackfillWorkers = 2
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 15 * time.Second
	}
	if c.Extraction.Retries == 0 {
		c.Extraction.Retries = 3
	}
	if c.Extraction.RetryDelay == 0 {
		c.Extraction.RetryDelay = 500 * time.Millisecond
	}
	if c.Extraction.MaxBodySize == 0 {
		c.Extraction.MaxBodySize = 5 << 20
	}
	if c.Extraction.Concurrency == 0 {
		c.Extraction.Concurrency = 4
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if cfg.LLM.Primary.Model == "" {
		return fmt.Errorf("llm.primary.model is required")
	}
	for name, p := range map[string]ProviderConfig{"primary": cfg.LLM.Primary, "secondary": cfg.LLM.Secondary} {
		if p.Model == "" {
			continue
		}
		if p.Type != ProviderOpenAI && p.Type != ProviderAnthropic {
			return fmt.Errorf("llm.%s.type must be %q or %q, got %q", name, ProviderOpenAI, ProviderAnthropic, p.Type)
		}
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.Timeout < time.Second {
		return fmt.Errorf("llm.timeout must be at least 1 second")
	}

	if cfg.Cache.FuzzyThreshold < 0 || cfg.Cache.FuzzyThreshold > 1 {
		return fmt.Errorf("cache.fuzzy_threshold must be between 0 and 1")
	}

	if cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}
	if cfg.Extraction.MaxBodySize < 1024 {
		return fmt.Errorf("extraction max_body_size must be at least 1024 bytes")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
