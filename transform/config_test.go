package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "recast", cfg.Name)
	assert.Equal(t, 0.8, cfg.MinConfidence)
	assert.False(t, cfg.Strict)
	assert.Empty(t, cfg.DisabledPatterns)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "defaults are still returned")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: [not a bool"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".recast.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, "recast", cfg.Name, "unset fields keep their defaults")
	assert.Equal(t, 0.8, cfg.MinConfidence)
}

func TestWriteDefaultConfigRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".recast.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Field-wise: the decoder turns the written empty pattern list into an
	// empty non-nil slice.
	def := DefaultConfig()
	assert.Equal(t, def.Name, cfg.Name)
	assert.Equal(t, def.MinConfidence, cfg.MinConfidence)
	assert.Equal(t, def.Strict, cfg.Strict)
	assert.Empty(t, cfg.DisabledPatterns)
}
