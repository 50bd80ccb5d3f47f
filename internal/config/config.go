package config

import (
	"fmt"
	"time"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Paths      PathsConfig      `yaml:"paths" toml:"paths"`
	Segmenter  SegmenterConfig  `yaml:"segmenter" toml:"segmenter"`
	Gemini     GeminiConfig     `yaml:"gemini" toml:"gemini"`
	Azure      AzureConfig      `yaml:"azure" toml:"azure"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs" toml:"elevenlabs"`
	Storage    StorageConfig    `yaml:"storage" toml:"storage"`
	Firestore  FirestoreConfig  `yaml:"firestore" toml:"firestore"`
	Player     PlayerConfig     `yaml:"player" toml:"player"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	File  string `yaml:"file" toml:"file"`
}

type PathsConfig struct {
	AudioDir string `yaml:"audio_dir" toml:"audio_dir"`
	Inbox    string `yaml:"inbox" toml:"inbox"`
	Exports  string `yaml:"exports" toml:"exports"`
}

type SegmenterConfig struct {
	Provider string        `yaml:"provider" toml:"provider"`
	MinWords int           `yaml:"min_words" toml:"min_words"`
	Timeout  time.Duration `yaml:"timeout" toml:"timeout"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model" toml:"model"`
	APIKeys []string `yaml:"api_keys" toml:"api_keys"`
}

type AzureConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	Deployment string `yaml:"deployment" toml:"deployment"`
	APIVersion string `yaml:"api_version" toml:"api_version"`
	APIKey     string `yaml:"api_key" toml:"api_key"`
}

type ElevenLabsConfig struct {
	BaseURL         string        `yaml:"base_url" toml:"base_url"`
	APIKey          string        `yaml:"api_key" toml:"api_key"`
	VoiceID         string        `yaml:"voice_id" toml:"voice_id"`
	ModelID         string        `yaml:"model_id" toml:"model_id"`
	Stability       float64       `yaml:"stability" toml:"stability"`
	SimilarityBoost float64       `yaml:"similarity_boost" toml:"similarity_boost"`
	Timeout         time.Duration `yaml:"timeout" toml:"timeout"`
}

type StorageConfig struct {
	Bucket          string        `yaml:"bucket" toml:"bucket"`
	CredentialsFile string        `yaml:"credentials_file" toml:"credentials_file"`
	Prefix          string        `yaml:"prefix" toml:"prefix"`
	SignedURLTTL    time.Duration `yaml:"signed_url_ttl" toml:"signed_url_ttl"`
}

type FirestoreConfig struct {
	ProjectID              string `yaml:"project_id" toml:"project_id"`
	CredentialsFile        string `yaml:"credentials_file" toml:"credentials_file"`
	Collection             string `yaml:"collection" toml:"collection"`
	DocumentID             string `yaml:"document_id" toml:"document_id"`
	GuardConcurrentUpdates bool   `yaml:"guard_concurrent_updates" toml:"guard_concurrent_updates"`
}

type PlayerConfig struct {
	Command string   `yaml:"command" toml:"command"`
	Args    []string `yaml:"args" toml:"args"`
}

const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

func (c *Config) Validate() error {
	if c.ElevenLabs.VoiceID == "" {
		return fmt.Errorf("elevenlabs.voice_id is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Firestore.DocumentID == "" {
		return fmt.Errorf("firestore.document_id is required")
	}

	if c.Segmenter.Provider == "" {
		c.Segmenter.Provider = ProviderGemini
	}
	switch c.Segmenter.Provider {
	case ProviderGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required when segmenter.provider is gemini")
		}
	case ProviderAzure:
		if c.Azure.Endpoint == "" || c.Azure.Deployment == "" {
			return fmt.Errorf("azure.endpoint and azure.deployment are required when segmenter.provider is azure")
		}
	default:
		return fmt.Errorf("segmenter.provider %q is not supported", c.Segmenter.Provider)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "data/narrator.log"
	}
	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = "audios"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Exports == "" {
		c.Paths.Exports = "data/exports"
	}
	if c.Segmenter.MinWords == 0 {
		c.Segmenter.MinWords = 8
	}
	if c.Segmenter.Timeout == 0 {
		c.Segmenter.Timeout = 60 * time.Second
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Azure.APIVersion == "" {
		c.Azure.APIVersion = "2023-05-15"
	}
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = "https://api.elevenlabs.io"
	}
	if c.ElevenLabs.ModelID == "" {
		c.ElevenLabs.ModelID = "eleven_multilingual_v2"
	}
	if c.ElevenLabs.Stability == 0 {
		c.ElevenLabs.Stability = 1
	}
	if c.ElevenLabs.SimilarityBoost == 0 {
		c.ElevenLabs.SimilarityBoost = 0.6
	}
	if c.ElevenLabs.Timeout == 0 {
		c.ElevenLabs.Timeout = 60 * time.Second
	}
	if c.Storage.Prefix == "" {
		c.Storage.Prefix = "audios"
	}
	if c.Storage.SignedURLTTL == 0 {
		c.Storage.SignedURLTTL = 7 * 24 * time.Hour
	}
	if c.Firestore.Collection == "" {
		c.Firestore.Collection = "presentations"
	}
	if c.Firestore.CredentialsFile == "" {
		c.Firestore.CredentialsFile = c.Storage.CredentialsFile
	}
	if c.Player.Command == "" {
		c.Player.Command = "ffplay"
		c.Player.Args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	}

	return nil
}
