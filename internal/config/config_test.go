package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newIsolatedLoader() *Loader {
	return &Loader{v: viper.New()}
}

func TestLoadDefaults(t *testing.T) {
	l := newIsolatedLoader()
	l.v.AddConfigPath(t.TempDir()) // no config file present

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "standard", cfg.Pipeline.LayoutVariant)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, `^[A-Z]{3}[0-9]{7}$`, cfg.Pipeline.Fields.EPICPattern)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
log_level: debug
pipeline:
  workers: 2
  detector:
    max_boxes: 12
server:
  port: 9999
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rollscan.yaml"), content, 0o600))

	l := newIsolatedLoader()
	l.SetConfigFile(filepath.Join(dir, "rollscan.yaml"))

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 12, cfg.Pipeline.Detector.MaxBoxes)
	assert.Equal(t, 9999, cfg.Server.Port)
	// Untouched sections keep defaults.
	assert.Equal(t, 120, cfg.Pipeline.Detector.MinWidth)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	content := []byte("log_level: shout\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rollscan.yaml"), content, 0o600))

	l := newIsolatedLoader()
	l.SetConfigFile(filepath.Join(dir, "rollscan.yaml"))
	_, err := l.Load()
	assert.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ROLLSCAN_SERVER_PORT", "7070")
	t.Setenv("ROLLSCAN_LOG_LEVEL", "warn")

	l := newIsolatedLoader()
	l.v.AddConfigPath(t.TempDir())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateTree(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := Default()
	bad.Pipeline.Detector.MergeThreshold = 2.0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Pipeline.Watermark.BandHigh = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Server.Port = -1
	assert.Error(t, bad.Validate())
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollscan.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path) //nolint:gosec // G304: temp path
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)

	// Refuses to overwrite.
	assert.Error(t, WriteDefault(path))
}
