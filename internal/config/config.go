package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Render     RenderConfig     `mapstructure:"render"`
	Stream     StreamConfig     `mapstructure:"stream"`
	Chart      ChartConfig      `mapstructure:"chart"`
	UI         UIConfig         `mapstructure:"ui"`
}

// SimulationConfig holds episode settings. Grid size, agent count and the
// learning constants are fixed and intentionally absent here.
type SimulationConfig struct {
	// Seed for the random source; 0 means seed from the clock
	Seed         int64 `mapstructure:"seed"`
	FrameDelayMs int   `mapstructure:"frame_delay_ms"`
}

// FrameDelay returns the pause between rendered steps
func (s SimulationConfig) FrameDelay() time.Duration {
	return time.Duration(s.FrameDelayMs) * time.Millisecond
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig holds terminal renderer settings
type RenderConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	Color       bool `mapstructure:"color"`
	ClearScreen bool `mapstructure:"clear_screen"`
}

// StreamConfig holds websocket feed settings
type StreamConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// ChartConfig holds distance chart export settings
type ChartConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// UIConfig holds windowed viewer configuration
type UIConfig struct {
	Window WindowConfig `mapstructure:"window"`
	Game   UIGameConfig `mapstructure:"game"`
}

// WindowConfig holds window settings
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// UIGameConfig holds viewer pacing settings
type UIGameConfig struct {
	TileSize     int `mapstructure:"tile_size"`
	TurnInterval int `mapstructure:"turn_interval"`
}

var (
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	// Simulation defaults
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.frame_delay_ms", 250)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Renderer defaults
	v.SetDefault("render.enabled", true)
	v.SetDefault("render.color", false)
	v.SetDefault("render.clear_screen", true)

	// Stream and chart are opt-in
	v.SetDefault("stream.enabled", false)
	v.SetDefault("stream.addr", "localhost:8089")
	v.SetDefault("chart.enabled", false)
	v.SetDefault("chart.path", "charts/distance.html")

	// UI defaults
	v.SetDefault("ui.window.width", 480)
	v.SetDefault("ui.window.height", 520)
	v.SetDefault("ui.window.title", "Friend Seek")
	v.SetDefault("ui.game.tile_size", 48)
	v.SetDefault("ui.game.turn_interval", 15)
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	// Set defaults before loading any config
	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/friendseek")
	}

	v.SetEnvPrefix("FSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// No config file anywhere; use defaults
		case configPath != "" && errors.Is(err, fs.ErrNotExist):
			// Requested file is missing; use defaults
		default:
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	v.Unmarshal(cfg)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. onChange runs after
// the new values have been decoded and validated; invalid edits are
// reported through onError and the previous values are kept.
func WatchConfig(onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("unable to decode %s: %w", e.Name, err))
			}
			return
		}
		if err := Validate(next); err != nil {
			if onError != nil {
				onError(fmt.Errorf("invalid config in %s: %w", e.Name, err))
			}
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Simulation.FrameDelayMs < 0 {
		return fmt.Errorf("simulation.frame_delay_ms must be non-negative")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	if c.Stream.Enabled && c.Stream.Addr == "" {
		return fmt.Errorf("stream.addr is required when stream.enabled is set")
	}
	if c.Chart.Enabled && c.Chart.Path == "" {
		return fmt.Errorf("chart.path is required when chart.enabled is set")
	}

	if c.UI.Window.Width <= 0 || c.UI.Window.Height <= 0 {
		return fmt.Errorf("ui.window dimensions must be positive")
	}
	if c.UI.Game.TileSize <= 0 {
		return fmt.Errorf("ui.game.tile_size must be positive")
	}
	if c.UI.Game.TurnInterval <= 0 {
		return fmt.Errorf("ui.game.turn_interval must be positive")
	}

	return nil
}
