package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that carry credentials. They take precedence over the file.
const (
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvGeminiKeys    = "GEMINI_API_KEYS"
	EnvAzureKey      = "AZURE_OPENAI_API_KEY"
	EnvCredentials   = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Load reads a YAML or TOML config file (chosen by extension), applies
// credentials from the environment and an optional .env next to the working
// directory, then validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvElevenLabsKey); v != "" {
		c.ElevenLabs.APIKey = v
	}
	if v := os.Getenv(EnvGeminiKeys); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		c.Gemini.APIKeys = keys
	}
	if v := os.Getenv(EnvAzureKey); v != "" {
		c.Azure.APIKey = v
	}
	if v := os.Getenv(EnvCredentials); v != "" && c.Storage.CredentialsFile == "" {
		c.Storage.CredentialsFile = v
	}
}
