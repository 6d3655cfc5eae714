package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/flowcanvas/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = strings.Repeat("ab", 32)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "flowcanvas.yaml", `
name: Intake
agent_id: agent-1
log_level: debug
metrics: true
redact: ["api_key"]
store:
  type: redis
  redis:
    addr: redis:6379
    db: 2
    prefix: "fc:"
    ttl: 24h
http:
  port: 9090
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Intake", cfg.Name)
	assert.Equal(t, "agent-1", cfg.AgentID)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, []string{"api_key"}, cfg.Redact)
	assert.Equal(t, config.StoreRedis, cfg.Store.Type)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, 9090, cfg.HTTP.Port)

	ttl, err := cfg.Store.Redis.Expiration()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "flowcanvas.json", `{"store":{"type":"file","path":"out"}}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.StoreFile, cfg.Store.Type)
	assert.Equal(t, "out", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.HTTP.Port, "defaults survive partial files")
}

func TestLoad_EncryptionKeyFromEnv(t *testing.T) {
	t.Setenv(config.EnvEncryptionKey, testKey)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	active, fallback, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Empty(t, fallback)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"store type":   "store:\n  type: s3\n",
		"short key":    "encryption_key: abcd\n",
		"bad fallback": "encryption_key: " + testKey + "\nfallback_keys: [zz]\n",
		"ttl":          "store:\n  redis:\n    ttl: soon\n",
		"port":         "http:\n  port: 70000\n",
		"redact":       "redact: ['(api']\n",
		"yaml":         "store: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, "flowcanvas.yaml", content))
			assert.Error(t, err)
		})
	}
}
