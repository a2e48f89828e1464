package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppConfigEmptyDirYieldsDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 7860, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.PingIntervalSec)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 6, cfg.Rooms.CodeLength)
	assert.Equal(t, 1800, cfg.Rooms.IdleThresholdSec)
	assert.Nil(t, cfg.Security.AdminCredential)
	assert.NotEmpty(t, cfg.WebRTC.PeerConnectionConfig.IceServers)
}

func TestLoadAppConfigMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "server.yaml", "port: 9000\nallowedOrigins:\n  - https://app.example.com\n")
	writeFile(t, dir, "rooms.yaml", "idleThresholdSec: 600\n")

	cfg, err := LoadAppConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	// Fields the file does not set keep their defaults.
	assert.Equal(t, 30, cfg.Server.PingIntervalSec)
	assert.Equal(t, 600, cfg.Rooms.IdleThresholdSec)
	assert.Equal(t, 1800, cfg.Rooms.SweepIntervalSec)
}

func TestLoadAppConfigReadsJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "security.json", `{"adminCredential": "hunter2"}`)

	cfg, err := LoadAppConfig(dir)
	require.NoError(t, err)

	require.NotNil(t, cfg.Security.AdminCredential)
	assert.Equal(t, "hunter2", *cfg.Security.AdminCredential)
	assert.Nil(t, cfg.Security.TLSCrtFile)
}

func TestLoadAppConfigToleratesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "server.yaml", "")

	cfg, err := LoadAppConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 7860, cfg.Server.Port)
}

func TestNewAppConfigOptions(t *testing.T) {
	cfg := NewAppConfig(
		WithPort(8123),
		WithAdminCredential("secret"),
		WithIdleThresholdSec(120),
	)

	assert.Equal(t, 8123, cfg.Server.Port)
	require.NotNil(t, cfg.Security.AdminCredential)
	assert.Equal(t, "secret", *cfg.Security.AdminCredential)
	assert.Equal(t, 120, cfg.Rooms.IdleThresholdSec)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
