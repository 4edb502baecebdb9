package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/paperless-mirror/internal/config"
)

func TestOverrideFromFlags(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	def := cfg.Server.GRPCAddr

	overrideFromFlags(cfg, "", "", "", false)
	require.Equal(t, def, cfg.Server.GRPCAddr)
	require.Empty(t, cfg.Server.HTTPAddr)

	overrideFromFlags(cfg, ":9000", ":8080", "postgres://x", true)
	require.Equal(t, ":9000", cfg.Server.GRPCAddr)
	require.Equal(t, ":8080", cfg.Server.HTTPAddr)
	require.Equal(t, "postgres://x", cfg.Database.DSN)
	require.True(t, cfg.Server.Dev)
}
