package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandedFile(t *testing.T) {
	cfg := LoggingConfig{File: "/var/log/aniterm.log"}
	path, err := cfg.ExpandedFile()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/aniterm.log", path, "absolute paths pass through")

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg = LoggingConfig{File: "~/logs/aniterm.log"}
	path, err = cfg.ExpandedFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "aniterm.log"), path)
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, (&Config{}).IsConfigured())
	assert.True(t, (&Config{Server: ServerConfig{URL: "http://localhost:5000"}}).IsConfigured())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, "anime-media", cfg.Storage.Bucket)
	assert.NotEmpty(t, cfg.Logging.File)
}
