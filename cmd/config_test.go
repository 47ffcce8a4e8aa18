package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/wallhub/internal/config"
)

func TestConfigShow(t *testing.T) {
	path, _ := writeTestConfig(t, `
[tap]
number_of_taps = 3
`)

	require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "show"))
	assert.Equal(t, 3, config.Get().Tap.NumberOfTaps)
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh", "wallhub.toml")
	t.Cleanup(func() { config.Set(nil) })

	// Drop values read by earlier tests; there is no file to replace them
	viper.Reset()

	require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "save"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "number_of_taps")
	assert.Contains(t, string(content), "tick_rate")

	// The saved file loads back
	require.NoError(t, executeCommand(rootCmd, "--config", path, "config", "path"))
	assert.Equal(t, config.DefaultConfig.Tap, config.Get().Tap)
}

func TestConfigValidation(t *testing.T) {
	t.Run("rejects invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wallhub.toml")
		require.NoError(t, os.WriteFile(path, []byte("[tap\nnumber_of_taps = 2\n"), 0644))

		err := executeCommand(rootCmd, "--config", path, "config", "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}
