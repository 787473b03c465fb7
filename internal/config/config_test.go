package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "\t", cfg.Output.Indent)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
	assert.Empty(t, cfg.Textures.SearchDirs)
	assert.False(t, cfg.Validate.SkipFileCheck)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "xsitool.yaml")

	want := Default()
	want.Textures.SearchDirs = []string{"./textures", "/mods/shared"}
	want.Textures.Recursive = true
	want.Validate.SkipImageProbe = true
	want.Logging.Level = "debug"

	require.NoError(t, want.SaveTo(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xsitool.yaml")
	data := []byte("textures:\n  search_dirs: [assets]\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Unset keys keep their defaults.
	assert.Equal(t, []string{"assets"}, cfg.Textures.SearchDirs)
	assert.Equal(t, "\t", cfg.Output.Indent)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xsitool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
