// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Multi-tap detector tuning
	Tap TapConfig `mapstructure:"tap"`

	// Offset emulator selection
	Emulator EmulatorConfig `mapstructure:"emulator"`

	// Native event bridge socket
	Bridge BridgeConfig `mapstructure:"bridge"`

	// Native mode main loop
	Serve ServeConfig `mapstructure:"serve"`

	// Terminal preview
	Preview PreviewConfig `mapstructure:"preview"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// TapConfig contains multi-tap detector settings
type TapConfig struct {
	NumberOfTaps          int           `mapstructure:"number_of_taps"`
	MaxTimeBetweenTaps    time.Duration `mapstructure:"max_time_between_taps"`
	TapZoneRadiusRelative float64       `mapstructure:"tap_zone_radius_relative"`
}

// EmulatorConfig selects and tunes the offset emulator
type EmulatorConfig struct {
	Kind          string  `mapstructure:"kind"`           // none, smooth, paging, static
	SmoothSpeed   float64 `mapstructure:"smooth_speed"`   // offset units per second
	PagingScreens int     `mapstructure:"paging_screens"` // home screens emulated by the paging emulator
	PagingSpeed   float64 `mapstructure:"paging_speed"`   // offset units per second
	StaticOffsetX float64 `mapstructure:"static_offset_x"`
	StaticOffsetY float64 `mapstructure:"static_offset_y"`
}

// BridgeConfig contains native bridge socket settings
type BridgeConfig struct {
	SocketPath    string        `mapstructure:"socket_path"`
	QueueCapacity int           `mapstructure:"queue_capacity"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// ServeConfig contains settings for the native mode loop
type ServeConfig struct {
	TickRate int `mapstructure:"tick_rate"` // ticks per second
}

// PreviewConfig contains terminal preview settings
type PreviewConfig struct {
	FPS        int `mapstructure:"fps"`
	CellWidth  int `mapstructure:"cell_width"`  // pixels per terminal column
	CellHeight int `mapstructure:"cell_height"` // pixels per terminal row
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Tap: TapConfig{
			NumberOfTaps:          2,
			MaxTimeBetweenTaps:    250 * time.Millisecond,
			TapZoneRadiusRelative: 0.15,
		},
		Emulator: EmulatorConfig{
			Kind:          "none",
			SmoothSpeed:   2.0,
			PagingScreens: 5,
			PagingSpeed:   3.0,
			StaticOffsetX: 0.5,
			StaticOffsetY: 0,
		},
		Bridge: BridgeConfig{
			SocketPath:    defaultSocketPath(),
			QueueCapacity: 1024,
			Timeout:       5 * time.Second,
		},
		Serve: ServeConfig{
			TickRate: 60,
		},
		Preview: PreviewConfig{
			FPS:        30,
			CellWidth:  8,
			CellHeight: 16,
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	// Set config name and type
	viper.SetConfigName("wallhub")
	viper.SetConfigType("toml")

	// If a specific path is set, use only that
	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// Add config paths in order of precedence
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "wallhub"))
		}
		viper.AddConfigPath("/etc/wallhub")
		viper.AddConfigPath(".") // Current directory (lowest priority)
	}

	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	// Unmarshal config
	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// setDefaults registers every key individually for proper merging
func setDefaults() {
	viper.SetDefault("tap.number_of_taps", DefaultConfig.Tap.NumberOfTaps)
	viper.SetDefault("tap.max_time_between_taps", DefaultConfig.Tap.MaxTimeBetweenTaps)
	viper.SetDefault("tap.tap_zone_radius_relative", DefaultConfig.Tap.TapZoneRadiusRelative)

	viper.SetDefault("emulator.kind", DefaultConfig.Emulator.Kind)
	viper.SetDefault("emulator.smooth_speed", DefaultConfig.Emulator.SmoothSpeed)
	viper.SetDefault("emulator.paging_screens", DefaultConfig.Emulator.PagingScreens)
	viper.SetDefault("emulator.paging_speed", DefaultConfig.Emulator.PagingSpeed)
	viper.SetDefault("emulator.static_offset_x", DefaultConfig.Emulator.StaticOffsetX)
	viper.SetDefault("emulator.static_offset_y", DefaultConfig.Emulator.StaticOffsetY)

	viper.SetDefault("bridge.socket_path", DefaultConfig.Bridge.SocketPath)
	viper.SetDefault("bridge.queue_capacity", DefaultConfig.Bridge.QueueCapacity)
	viper.SetDefault("bridge.timeout", DefaultConfig.Bridge.Timeout)

	viper.SetDefault("serve.tick_rate", DefaultConfig.Serve.TickRate)

	viper.SetDefault("preview.fps", DefaultConfig.Preview.FPS)
	viper.SetDefault("preview.cell_width", DefaultConfig.Preview.CellWidth)
	viper.SetDefault("preview.cell_height", DefaultConfig.Preview.CellHeight)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
}

// Validate checks values that have no sensible fallback
func (c *Config) Validate() error {
	if c.Tap.NumberOfTaps < 1 {
		return fmt.Errorf("invalid config: tap.number_of_taps must be >= 1, got %d", c.Tap.NumberOfTaps)
	}
	if c.Tap.MaxTimeBetweenTaps <= 0 {
		return fmt.Errorf("invalid config: tap.max_time_between_taps must be > 0, got %s", c.Tap.MaxTimeBetweenTaps)
	}
	if c.Tap.TapZoneRadiusRelative < 0.01 || c.Tap.TapZoneRadiusRelative > 1 {
		return fmt.Errorf("invalid config: tap.tap_zone_radius_relative must be in range [0.01, 1], got %v", c.Tap.TapZoneRadiusRelative)
	}
	if c.Serve.TickRate <= 0 {
		return fmt.Errorf("invalid config: serve.tick_rate must be > 0, got %d", c.Serve.TickRate)
	}
	if c.Preview.FPS <= 0 {
		return fmt.Errorf("invalid config: preview.fps must be > 0, got %d", c.Preview.FPS)
	}
	if c.Preview.CellWidth <= 0 || c.Preview.CellHeight <= 0 {
		return fmt.Errorf("invalid config: preview cell size must be positive, got %dx%d", c.Preview.CellWidth, c.Preview.CellHeight)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		defaults := DefaultConfig
		return &defaults
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config
	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	// If override is set, use that
	if configPathOverride != "" {
		return configPathOverride
	}

	// Check if config file is already loaded
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "/etc/wallhub/wallhub.toml"
	}

	return filepath.Join(dir, "wallhub", "wallhub.toml")
}

// UpdateTap updates multi-tap settings in memory and in viper
func UpdateTap(tap TapConfig) {
	viper.Set("tap.number_of_taps", tap.NumberOfTaps)
	viper.Set("tap.max_time_between_taps", tap.MaxTimeBetweenTaps)
	viper.Set("tap.tap_zone_radius_relative", tap.TapZoneRadiusRelative)
	ensure().Tap = tap
}

// UpdateEmulator updates emulator settings in memory and in viper
func UpdateEmulator(emu EmulatorConfig) {
	viper.Set("emulator.kind", emu.Kind)
	viper.Set("emulator.smooth_speed", emu.SmoothSpeed)
	viper.Set("emulator.paging_screens", emu.PagingScreens)
	viper.Set("emulator.paging_speed", emu.PagingSpeed)
	viper.Set("emulator.static_offset_x", emu.StaticOffsetX)
	viper.Set("emulator.static_offset_y", emu.StaticOffsetY)
	ensure().Emulator = emu
}

func ensure() *Config {
	if cfg == nil {
		cfg = Get()
	}
	return cfg
}

// defaultSocketPath returns a per-user socket location
func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "wallhub.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("wallhub-%d.sock", os.Getuid()))
}
