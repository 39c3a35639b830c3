package model

import "fmt"

// Config is the full runtime configuration. Values come from flags,
// CIVICLENS_* environment variables, and an optional YAML config file, in
// that order of precedence. API keys are environment-only and never part
// of this structure.
type Config struct {
	ShareURL    string          `yaml:"share_url" mapstructure:"share_url"`
	ArchivePath string          `yaml:"archive_path" mapstructure:"archive_path"`
	CorpusDir   string          `yaml:"corpus_dir" mapstructure:"corpus_dir"`
	RubricFile  string          `yaml:"rubric_file" mapstructure:"rubric_file"`
	Workers     int             `yaml:"workers" mapstructure:"workers"`
	Artifacts   ArtifactsConfig `yaml:"artifacts" mapstructure:"artifacts"`
	HTTP        HTTPConfig      `yaml:"http" mapstructure:"http"`
	Embedder    EmbedderConfig  `yaml:"embedder" mapstructure:"embedder"`
	LLM         LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Server      ServerConfig    `yaml:"server" mapstructure:"server"`
}

// ArtifactsConfig names the three pipeline artifacts. The defaults are a
// compatibility contract with downstream consumers and rarely change.
type ArtifactsConfig struct {
	Keywords   string `yaml:"keywords" mapstructure:"keywords"`
	Structured string `yaml:"structured" mapstructure:"structured"`
	Phased     string `yaml:"phased" mapstructure:"phased"`
}

// HTTPConfig controls the archive downloader.
type HTTPConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxBodyMB      int    `yaml:"max_body_mb" mapstructure:"max_body_mb"`
	CheckRobots    bool   `yaml:"check_robots" mapstructure:"check_robots"`
	Proxy          string `yaml:"proxy" mapstructure:"proxy"`
	HTTPSProxy     string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy        string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// EmbedderConfig controls the keyword-ranking embedder.
type EmbedderConfig struct {
	// Provider selects the embedding backend: "openai", "lexical", or
	// empty for automatic (openai when OPENAI_API_KEY is set).
	Provider      string  `yaml:"provider" mapstructure:"provider"`
	Model         string  `yaml:"model" mapstructure:"model"`
	BatchSize     int     `yaml:"batch_size" mapstructure:"batch_size"`
	TopN          int     `yaml:"top_n" mapstructure:"top_n"`
	Diversity     float64 `yaml:"diversity" mapstructure:"diversity"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// LLMConfig controls the suggestion-synthesis provider.
type LLMConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	Provider       string  `yaml:"provider" mapstructure:"provider"`
	Model          string  `yaml:"model" mapstructure:"model"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens      int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// CacheConfig controls the extracted-text cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	Port    int    `yaml:"port" mapstructure:"port"`
	Dataset string `yaml:"dataset" mapstructure:"dataset"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		ArchivePath: "downloads/bamboards_files.zip",
		CorpusDir:   "extracted",
		Workers:     4,
		Artifacts: ArtifactsConfig{
			Keywords:   "keybert_keywords.json",
			Structured: "structured_keywords.json",
			Phased:     "structured_keywords_phased.json",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 120,
			MaxBodyMB:      512,
			CheckRobots:    true,
		},
		Embedder: EmbedderConfig{
			Model:     "text-embedding-3-small",
			BatchSize: 64,
			TopN:      20,
			Diversity: 0.6,
		},
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
			MaxTokens:      200,
			RatePerSecond:  1,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTLDays: 7,
		},
		Server: ServerConfig{
			Port:    8050,
			Dataset: "structured_keywords_phased.json",
		},
	}
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime behavior.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Embedder.TopN <= 0 {
		return fmt.Errorf("embedder top_n must be positive, got %d", c.Embedder.TopN)
	}
	if c.Embedder.Diversity < 0 || c.Embedder.Diversity > 1 {
		return fmt.Errorf("embedder diversity must be in [0,1], got %g", c.Embedder.Diversity)
	}
	if c.Embedder.BatchSize <= 0 {
		return fmt.Errorf("embedder batch_size must be positive, got %d", c.Embedder.BatchSize)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.MaxBodyMB <= 0 {
		return fmt.Errorf("http max_body_mb must be positive, got %d", c.HTTP.MaxBodyMB)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Artifacts.Keywords == "" || c.Artifacts.Structured == "" || c.Artifacts.Phased == "" {
		return fmt.Errorf("artifact paths must not be empty")
	}
	return nil
}
