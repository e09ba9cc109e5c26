package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lm75.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
adapter: generic
device: /dev/i2c-3
address: 0x4f
variant: "11"
timeout: 250ms
hysteresis: 60.5
shutdown_threshold: 70
`)
	profile, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Adapter:           "generic",
		Device:            "/dev/i2c-3",
		Bus:               -1,
		Address:           0x4F,
		Variant:           "11",
		Timeout:           250 * time.Millisecond,
		Hysteresis:        60.5,
		ShutdownThreshold: 70,
		Configuration:     0x08,
	}, profile)
}

func TestLoadProfile_UnknownKey(t *testing.T) {
	path := writeProfile(t, "adress: 0x48\n")
	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestLoadProfile_Missing(t *testing.T) {
	profile, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Equal(t, DefaultProfile(), profile)
}

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()
	assert.Equal(t, "mcp2221", profile.Adapter)
	assert.Equal(t, 500*time.Millisecond, profile.Timeout)
}

func TestBuildInfo(t *testing.T) {
	assert.Equal(t, "dev-unknown-none", BuildInfo())
}
