package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/logger"
)

var (
	configPath string
	logLevel   string
	socketPath string

	rootCmd = &cobra.Command{
		Use:   "wallhub",
		Short: "wallhub - live wallpaper state hub",
		Long: `wallhub keeps the state of a live wallpaper (visibility, preview mode,
desired surface size, launcher offsets) and dispatches launcher events to
subscribers. It runs behind a native event bridge or in a terminal preview that
simulates a launcher.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default is $XDG_CONFIG_HOME/wallhub/wallhub.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&socketPath, "socket", "s", "", "Bridge socket path")

	// Bind flags to viper
	_ = viper.BindPFlag("bridge.socket_path", rootCmd.PersistentFlags().Lookup("socket"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(configPath)
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flag beats config file beats LOG_LEVEL
	level := config.Get().Logging.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if level != "" {
		logger.SetLevel(level)
	}

	return nil
}
