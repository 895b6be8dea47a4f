// Package config loads dmarquees settings using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danc/dmarquees/internal/types"
	"github.com/spf13/viper"
)

const EnvPrefix = "DMARQUEES"

// Config is the resolved daemon configuration
type Config struct {
	Device   string `mapstructure:"device"`
	FIFO     string `mapstructure:"fifo"`
	Socket   string `mapstructure:"socket"`
	ImageDir string `mapstructure:"image_dir"`
	// DefaultDir holds the per-frontend default marquees
	DefaultDir string `mapstructure:"default_dir"`
	IniDir     string `mapstructure:"ini_dir"`

	Frontend        string `mapstructure:"frontend"`
	Placement       string `mapstructure:"placement"`
	PreferredWidth  int    `mapstructure:"preferred_width"`
	PreferredHeight int    `mapstructure:"preferred_height"`

	PollInterval  time.Duration `mapstructure:"poll_interval"`
	HoldDuration  time.Duration `mapstructure:"hold_duration"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	LogThrottle   time.Duration `mapstructure:"log_throttle"`

	LogDir string `mapstructure:"log_dir"`
	Debug  bool   `mapstructure:"debug"`

	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// DefaultsConfig names the default marquee of each frontend mode
type DefaultsConfig struct {
	NA string `mapstructure:"na"`
	SA string `mapstructure:"sa"`
	RA string `mapstructure:"ra"`
}

// DefaultConfig provides the values used when nothing else is set
var DefaultConfig = Config{
	Device:          "/dev/dri/card1",
	FIFO:            "/tmp/dmarquees_cmd",
	ImageDir:        "/home/pi/marquees",
	DefaultDir:      "/opt/dmarquees/images",
	IniDir:          "/opt/retropie/emulators/mame/ini",
	Frontend:        string(types.FrontendNone),
	Placement:       string(types.PlacementBottomCenter),
	PreferredWidth:  1920,
	PreferredHeight: 1080,
	PollInterval:    250 * time.Millisecond,
	HoldDuration:    10 * time.Second,
	RetryInterval:   time.Second,
	LogThrottle:     5 * time.Second,
	LogDir:          "/var/log/dmarquees",
	Defaults: DefaultsConfig{
		NA: "RetroPieMarquee",
		SA: "MAMELogoR",
		RA: "RetroArch_logo",
	},
}

// SetDefaults registers defaults and environment lookups on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("device", DefaultConfig.Device)
	v.SetDefault("fifo", DefaultConfig.FIFO)
	v.SetDefault("socket", "")
	v.SetDefault("image_dir", DefaultConfig.ImageDir)
	v.SetDefault("default_dir", DefaultConfig.DefaultDir)
	v.SetDefault("ini_dir", DefaultConfig.IniDir)
	v.SetDefault("frontend", DefaultConfig.Frontend)
	v.SetDefault("placement", DefaultConfig.Placement)
	v.SetDefault("preferred_width", DefaultConfig.PreferredWidth)
	v.SetDefault("preferred_height", DefaultConfig.PreferredHeight)
	v.SetDefault("poll_interval", DefaultConfig.PollInterval)
	v.SetDefault("hold_duration", DefaultConfig.HoldDuration)
	v.SetDefault("retry_interval", DefaultConfig.RetryInterval)
	v.SetDefault("log_throttle", DefaultConfig.LogThrottle)
	v.SetDefault("log_dir", DefaultConfig.LogDir)
	v.SetDefault("debug", false)
	v.SetDefault("defaults.na", DefaultConfig.Defaults.NA)
	v.SetDefault("defaults.sa", DefaultConfig.Defaults.SA)
	v.SetDefault("defaults.ra", DefaultConfig.Defaults.RA)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// AddConfigPaths points v at cfgFile, or at the usual locations when it is
// empty.
func AddConfigPaths(v *viper.Viper, cfgFile string) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		return
	}

	v.SetConfigName("dmarquees")
	v.SetConfigType("toml")
	if home := os.Getenv("HOME"); home != "" {
		v.AddConfigPath(filepath.Join(home, ".config", "dmarquees"))
	}
	v.AddConfigPath("/etc/dmarquees")
}

// Read loads the config file if there is one. A missing file is not an
// error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if _, err := types.ParseFrontendMode(cfg.Frontend); err != nil {
		return nil, err
	}
	if _, err := types.ParsePlacement(cfg.Placement); err != nil {
		return nil, err
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("device must be set")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive, got %v", cfg.PollInterval)
	}

	cfg.ImageDir = CanonicalPath(cfg.ImageDir)
	cfg.DefaultDir = CanonicalPath(cfg.DefaultDir)
	cfg.IniDir = CanonicalPath(cfg.IniDir)
	cfg.LogDir = CanonicalPath(cfg.LogDir)

	return cfg, nil
}

func (c *Config) FrontendMode() types.FrontendMode {
	m, _ := types.ParseFrontendMode(c.Frontend)
	return m
}

func (c *Config) PlacementMode() types.Placement {
	p, _ := types.ParsePlacement(c.Placement)
	return p
}

// DefaultNames maps frontend modes to their configured default marquee.
func (c *Config) DefaultNames() map[types.FrontendMode]string {
	return map[types.FrontendMode]string{
		types.FrontendNone:       c.Defaults.NA,
		types.FrontendStandalone: c.Defaults.SA,
		types.FrontendRetroArch:  c.Defaults.RA,
	}
}

// SocketPath is the control socket location. Without an explicit setting it
// lives in $XDG_RUNTIME_DIR, falling back to the temp dir.
func (c *Config) SocketPath() string {
	if c.Socket != "" {
		return CanonicalPath(c.Socket)
	}
	return DefaultSocketPath()
}

func DefaultSocketPath() string {
	sockDir := os.Getenv("XDG_RUNTIME_DIR")
	if sockDir == "" {
		sockDir = os.TempDir()
	}
	return filepath.Join(sockDir, "dmarquees.sock")
}

// CanonicalPath expands a leading ~ to $HOME.
func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return os.Getenv("HOME")
	}

	if strings.HasPrefix(path, "~/") {
		homeDir := os.Getenv("HOME")
		return strings.Replace(path, "~", homeDir, 1)
	}

	return path
}
