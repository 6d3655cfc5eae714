package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "flowcanvas.yaml"

// EnvEncryptionKey overrides encryption_key from the file.
const EnvEncryptionKey = "FLOWCANVAS_ENCRYPTION_KEY"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreLoam   = "loam"
)

// Config represents the structure of flowcanvas.yaml.
type Config struct {
	Name          string      `yaml:"name" json:"name"`
	AgentID       string      `yaml:"agent_id" json:"agent_id"`
	LogLevel      string      `yaml:"log_level" json:"log_level"`
	Metrics       bool        `yaml:"metrics" json:"metrics"`
	EncryptionKey string      `yaml:"encryption_key" json:"encryption_key"`
	FallbackKeys  []string    `yaml:"fallback_keys" json:"fallback_keys"`
	Redact        []string    `yaml:"redact" json:"redact"`
	Store         StoreConfig `yaml:"store" json:"store"`
	HTTP          HTTPConfig  `yaml:"http" json:"http"`
}

// StoreConfig selects and configures the document store.
type StoreConfig struct {
	Type  string      `yaml:"type" json:"type"`
	Path  string      `yaml:"path" json:"path"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	TTL      string `yaml:"ttl" json:"ttl"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Port int `yaml:"port" json:"port"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Type: StoreMemory,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		HTTP: HTTPConfig{Port: 8080},
	}
}

// Load reads a configuration file (YAML or JSON by extension) on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err == nil {
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	if key := os.Getenv(EnvEncryptionKey); key != "" {
		cfg.EncryptionKey = key
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Store.Type {
	case StoreMemory, StoreFile, StoreRedis, StoreLoam:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	if _, err := c.Store.Redis.Expiration(); err != nil {
		return err
	}
	for i, p := range c.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("redact[%d]: %w", i, err)
		}
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}
	return nil
}

// EncryptionKeys decodes the hex keys. A nil active key means encryption is off.
func (c Config) EncryptionKeys() ([]byte, [][]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err := decodeKey(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption_key: %w", err)
	}
	var fallback [][]byte
	for i, k := range c.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("key must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Expiration parses the TTL. Empty means documents never expire.
func (r RedisConfig) Expiration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", r.TTL, err)
	}
	return d, nil
}
