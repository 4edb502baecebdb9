package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/paperless-mirror/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pm.log")
	log := New(config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1})
	log.Info("sync finished")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"msg":"sync finished"`)
}

func TestNew_DebugLevel(t *testing.T) {
	require.True(t, New(config.LogConfig{Debug: true}).Core().Enabled(-1))
	require.False(t, New(config.LogConfig{}).Core().Enabled(-1))
}
