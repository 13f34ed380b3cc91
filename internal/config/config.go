package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the command line configuration
type Config struct {
	Shader         string        `mapstructure:"shader"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Elements       int           `mapstructure:"elements"`
	Factor         uint32        `mapstructure:"factor"`
	Groups         []uint32      `mapstructure:"groups"`
	Runtimes       int           `mapstructure:"runtimes"`
	Device         int           `mapstructure:"device"`
	RequireCompute bool          `mapstructure:"require_compute"`
	Image          ImageConfig   `mapstructure:"image"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

type ImageConfig struct {
	Width  uint32 `mapstructure:"width"`
	Height uint32 `mapstructure:"height"`
	Out    string `mapstructure:"out"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Shader:   filepath.Join("shaders", "shader.spv"),
		Timeout:  10 * time.Second,
		Elements: 65536,
		Factor:   12,
		Groups:   []uint32{1024, 1, 1},
		Runtimes: 1,
		Image: ImageConfig{
			Width:  2560,
			Height: 1440,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"shader":          "shader",
	"timeout":         "timeout",
	"elements":        "elements",
	"factor":          "factor",
	"groups":          "groups",
	"runtimes":        "runtimes",
	"device":          "device",
	"require-compute": "require_compute",
	"width":           "image.width",
	"height":          "image.height",
	"out":             "image.out",
	"log-level":       "logging.level",
	"log-file":        "logging.file",
}

// Load loads configuration from flags, environment, file and defaults, in
// that order of precedence. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".vulqueno"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VULQUENO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Shader = expandPath(cfg.Shader)
	cfg.Image.Out = expandPath(cfg.Image.Out)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Elements <= 0 {
		return errors.New("elements must be positive")
	}

	if len(c.Groups) != 3 {
		return fmt.Errorf("groups must have 3 values, got %d", len(c.Groups))
	}
	for _, g := range c.Groups {
		if g == 0 {
			return errors.New("groups must be positive")
		}
	}

	if c.Runtimes < 1 {
		return errors.New("runtimes must be at least 1")
	}

	if c.Device < 0 {
		return errors.New("device must not be negative")
	}

	if c.Image.Width == 0 || c.Image.Height == 0 {
		return errors.New("image.width and image.height must be positive")
	}

	validLevels := []string{"trace", "debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GroupCounts returns Groups as an x, y, z triple. Validate must have passed.
func (c *Config) GroupCounts() [3]uint32 {
	return [3]uint32{c.Groups[0], c.Groups[1], c.Groups[2]}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("shader", cfg.Shader)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("elements", cfg.Elements)
	v.SetDefault("factor", cfg.Factor)
	v.SetDefault("groups", cfg.Groups)
	v.SetDefault("runtimes", cfg.Runtimes)
	v.SetDefault("device", cfg.Device)
	v.SetDefault("require_compute", cfg.RequireCompute)

	v.SetDefault("image.width", cfg.Image.Width)
	v.SetDefault("image.height", cfg.Image.Height)
	v.SetDefault("image.out", cfg.Image.Out)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
