package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage wallhub configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		logger.Info("Current Configuration:")
		logger.Infof("Config file: %s\n", config.GetConfigPath())

		logger.Info("[Tap]")
		logger.Infof("  Number of Taps: %d", cfg.Tap.NumberOfTaps)
		logger.Infof("  Max Time Between Taps: %s", cfg.Tap.MaxTimeBetweenTaps)
		logger.Infof("  Tap Zone Radius: %.2f of the screen diagonal", cfg.Tap.TapZoneRadiusRelative)

		logger.Info("\n[Emulator]")
		logger.Infof("  Kind: %s", cfg.Emulator.Kind)
		logger.Infof("  Smooth Speed: %.2f", cfg.Emulator.SmoothSpeed)
		logger.Infof("  Paging Screens: %d", cfg.Emulator.PagingScreens)
		logger.Infof("  Paging Speed: %.2f", cfg.Emulator.PagingSpeed)
		logger.Infof("  Static Offset: %.2f, %.2f", cfg.Emulator.StaticOffsetX, cfg.Emulator.StaticOffsetY)

		logger.Info("\n[Bridge]")
		logger.Infof("  Socket: %s", cfg.Bridge.SocketPath)
		logger.Infof("  Queue Capacity: %d", cfg.Bridge.QueueCapacity)
		logger.Infof("  Timeout: %s", cfg.Bridge.Timeout)

		logger.Info("\n[Serve]")
		logger.Infof("  Tick Rate: %d/s", cfg.Serve.TickRate)

		logger.Info("\n[Preview]")
		logger.Infof("  FPS: %d", cfg.Preview.FPS)
		logger.Infof("  Cell Size: %dx%d px", cfg.Preview.CellWidth, cfg.Preview.CellHeight)

		if cfg.Logging.LogLevel != "" {
			logger.Info("\n[Logging]")
			logger.Infof("  Level: %s", cfg.Logging.LogLevel)
		}

		return nil
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(config.GetConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
