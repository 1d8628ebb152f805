package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigRelPath = ".codespec/config.yaml"
	defaultStoreRelPath  = ".codespec/history.db"
)

type LLMConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type ChunkConfig struct {
	Size int `yaml:"size"`
}

type OutputConfig struct {
	Dir      string   `yaml:"dir"`
	Formats  []string `yaml:"formats"`
	Validate bool     `yaml:"validate"`
}

type StoreConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type RedactConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Fields      []string `yaml:"fields"`
	Replacement string   `yaml:"replacement"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Chunk  ChunkConfig  `yaml:"chunk"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	Redact RedactConfig `yaml:"redact"`
	Log    LogConfig    `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
// A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.fillEmpty()
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	c.fillEmpty()
}

// fillEmpty restores defaults for settings whose zero value is unusable.
// An explicit zero temperature or max_tokens is kept.
func (c *Config) fillEmpty() {
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-3.5-turbo"
	}
	if c.Chunk.Size <= 0 {
		c.Chunk.Size = 2048
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"json"}
	}
	if c.Store.Enabled == nil {
		enabled := true
		c.Store.Enabled = &enabled
	}
	if c.Store.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Store.Path = filepath.Join(home, defaultStoreRelPath)
		} else {
			c.Store.Path = filepath.Base(defaultStoreRelPath)
		}
	}
	if len(c.Redact.Fields) == 0 {
		c.Redact.Fields = []string{"password", "secret", "token", "api_key", "apikey", "access_token", "refresh_token", "private_key", "credential"}
	}
	if c.Redact.Replacement == "" {
		c.Redact.Replacement = "***REDACTED***"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// StoreEnabled reports whether run history should be recorded.
func (c *Config) StoreEnabled() bool {
	return c.Store.Enabled == nil || *c.Store.Enabled
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir cannot be empty")
	}
	for _, f := range c.Output.Formats {
		switch f {
		case "json", "yaml":
		default:
			return fmt.Errorf("output.formats: unknown format %q", f)
		}
	}
	if c.LLM.MaxTokens < 0 {
		return errors.New("llm.max_tokens cannot be negative")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature out of range: %v", c.LLM.Temperature)
	}
	return nil
}

func applyEnvOverrides(c *Config) {
	setString(&c.LLM.APIKey, "OPENAI_API_KEY")
	setString(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&c.LLM.APIKey, "CODESPEC_LLM_API_KEY")
	setString(&c.LLM.BaseURL, "CODESPEC_LLM_BASE_URL")
	setString(&c.LLM.Model, "CODESPEC_LLM_MODEL")
	setInt(&c.LLM.MaxTokens, "CODESPEC_LLM_MAX_TOKENS")
	setFloat(&c.LLM.Temperature, "CODESPEC_LLM_TEMPERATURE")
	setInt(&c.Chunk.Size, "CODESPEC_CHUNK_SIZE")
	setString(&c.Output.Dir, "CODESPEC_OUTPUT_DIR")
	setBool(&c.Output.Validate, "CODESPEC_OUTPUT_VALIDATE")
	setString(&c.Store.Path, "CODESPEC_STORE_PATH")
	if v, ok := os.LookupEnv("CODESPEC_STORE_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Store.Enabled = &b
		}
	}
	setBool(&c.Redact.Enabled, "CODESPEC_REDACT_ENABLED")
	setString(&c.Log.Level, "CODESPEC_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
