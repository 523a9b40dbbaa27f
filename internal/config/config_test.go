package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":8787", cfg.ListenAddr)
	assert.Empty(t, cfg.StoreAddr)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, 100*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, "#000000", cfg.PenColor)
	assert.Equal(t, 4.0, cfg.PenThickness)
}

func TestLoad_ParsesAllKeys(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":9999"
store_addr = "192.168.1.20:8787"
db_path = "/tmp/board.db"
flush_interval_ms = 250
pen_color = "#3366cc"
pen_thickness = 7.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, "192.168.1.20:8787", cfg.StoreAddr)
	assert.Equal(t, "/tmp/board.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, "#3366cc", cfg.PenColor)
	assert.Equal(t, 7.5, cfg.PenThickness)
}

func TestLoad_PartialFileKeepsDefaultsForTheRest(t *testing.T) {
	path := writeConfig(t, `pen_color = "#ff0000"`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "#ff0000", cfg.PenColor)
	assert.Equal(t, ":8787", cfg.ListenAddr)
	assert.Equal(t, 100*time.Millisecond, cfg.FlushInterval)
}

func TestLoad_OutOfRangeThicknessIgnored(t *testing.T) {
	for _, body := range []string{
		`pen_thickness = 0.5`,
		`pen_thickness = 42`,
		`pen_thickness = -3`,
	} {
		cfg, err := Load(writeConfig(t, body))
		require.NoError(t, err)
		assert.Equal(t, 4.0, cfg.PenThickness, "config: %s", body)
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	_, err := Load(writeConfig(t, `listen_addr = [not toml`))
	assert.Error(t, err)
}
