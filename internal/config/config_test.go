package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbruce/bramble/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
history_limit: 25
store:
  backend: redis
  redis:
    addr: "localhost:6379"
    db: 2
    prefix: "editor:"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "editor:", cfg.Store.Redis.Prefix)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `addr: ":3000"`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 100, cfg.HistoryLimit, "unset fields keep their defaults")
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoad_WeakTyping(t *testing.T) {
	// Quoted numbers are common in hand-edited YAML; they must not fail.
	path := writeConfig(t, `history_limit: "50"`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("UnknownBackend", func(t *testing.T) {
		path := writeConfig(t, `
store:
  backend: carrier-pigeon
`)
		_, err := config.Load(path)
		assert.ErrorContains(t, err, "unknown store backend")
	})

	t.Run("NonPositiveHistoryLimit", func(t *testing.T) {
		path := writeConfig(t, `history_limit: 0`)
		_, err := config.Load(path)
		assert.ErrorContains(t, err, "history_limit")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		path := writeConfig(t, "addr: [unclosed")
		_, err := config.Load(path)
		assert.Error(t, err)
	})
}
