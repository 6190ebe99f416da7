package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how document text is split into chunks.
type ChunkerConfig struct {
	TargetSize int `yaml:"target_size"`
	Overlap    int `yaml:"overlap"`
}

// RetrievalConfig bounds the context handed to the generator.
type RetrievalConfig struct {
	TopK          int `yaml:"top_k"`
	HistoryWindow int `yaml:"history_window"`
}

// OpenAIConfig holds connection details for an OpenAI-compatible API.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type        string        `yaml:"type"`
	Dimension   int           `yaml:"dimension,omitempty"`
	Concurrency int           `yaml:"concurrency"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty"`
}

// GeneratorConfig configures the answer generation model.
type GeneratorConfig struct {
	OpenAI      *OpenAIConfig `yaml:"openai"`
	TimeoutSecs int           `yaml:"timeout_secs"`
}

// SessionConfig controls session eviction. A negative TTL disables eviction.
type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

// TelegramConfig configures the bot transport.
type TelegramConfig struct {
	TokenEnv      string `yaml:"token_env"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
}

// AppConfig is the root application configuration, constant at process start.
type AppConfig struct {
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Session   SessionConfig   `yaml:"session"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Chunker:   ChunkerConfig{TargetSize: 1000, Overlap: 200},
		Retrieval: RetrievalConfig{TopK: 4, HistoryWindow: 3},
		Embedder:  EmbedderConfig{Type: "openai", Concurrency: 8},
		Session:   SessionConfig{TTLHours: 24},
		Telegram:  TelegramConfig{TokenEnv: "TELEGRAM_TOKEN", MaxFileSizeMB: 20},
		Generator: GeneratorConfig{TimeoutSecs: 60},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.TargetSize == 0 {
		cfg.Chunker.TargetSize = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if cfg.Retrieval.HistoryWindow == 0 {
		cfg.Retrieval.HistoryWindow = 3
	}
	if cfg.Embedder.Concurrency == 0 {
		cfg.Embedder.Concurrency = 8
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &OpenAIConfig{}
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
	}
	if cfg.Embedder.Type == "hashing" && cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 512
	}
	if cfg.Generator.OpenAI == nil {
		cfg.Generator.OpenAI = &OpenAIConfig{}
	}
	if cfg.Generator.OpenAI.APIKeyEnv == "" {
		cfg.Generator.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Generator.OpenAI.Model == "" {
		cfg.Generator.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 60
	}
	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 24
	}
	if cfg.Telegram.TokenEnv == "" {
		cfg.Telegram.TokenEnv = "TELEGRAM_TOKEN"
	}
	if cfg.Telegram.MaxFileSizeMB == 0 {
		cfg.Telegram.MaxFileSizeMB = 20
	}
}
