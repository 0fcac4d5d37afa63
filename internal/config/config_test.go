package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "./shortbox_data", cfg.DataDir)
	assert.Equal(t, 6, cfg.CodeLength)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Ephemeral)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("DATA_DIR", "/tmp/elsewhere")
	t.Setenv("CODE_LENGTH", "8")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/elsewhere", cfg.DataDir)
	assert.Equal(t, 8, cfg.CodeLength)
	assert.Equal(t, "debug", cfg.LogLevel)
}
