// Package config loads application configuration: defaults, an optional
// YAML file in the data directory, and DELIVERYLOG_* environment overrides.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env      string
	DataDir  string
	Platform string
	Location Location
	Camera   Camera
}

// Location configures coordinate acquisition: either an external helper
// command emitting latitude/longitude JSON, or a pinned coordinate for
// hosts without one.
type Location struct {
	Command []string
	Timeout time.Duration
	PinLat  float64
	PinLon  float64
	Pinned  bool
}

// Camera configures the external capture command; the gallery import path
// needs no configuration.
type Camera struct {
	Command []string
}

// Load builds the configuration. cfgFile, when non-empty, names an explicit
// config file; otherwise config.yaml is looked up in the data directory and
// the working directory.
func Load(cfgFile string) (*Config, error) {
	// Optional .env, relying on real environment variables otherwise.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	defaultDataDir := filepath.Join(home, ".deliverylog")

	v := viper.New()
	v.SetDefault("env", EnvLocal)
	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("location.timeout", "10s")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(defaultDataDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DELIVERYLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// No config file, defaults and environment apply.
	}

	cfg := &Config{
		Env:      v.GetString("env"),
		DataDir:  v.GetString("data_dir"),
		Platform: v.GetString("platform"),
		Location: Location{
			Command: v.GetStringSlice("location.command"),
			Timeout: v.GetDuration("location.timeout"),
		},
		Camera: Camera{
			Command: v.GetStringSlice("camera.command"),
		},
	}

	if v.IsSet("location.latitude") || v.IsSet("location.longitude") {
		cfg.Location.Pinned = true
		cfg.Location.PinLat = v.GetFloat64("location.latitude")
		cfg.Location.PinLon = v.GetFloat64("location.longitude")
	}

	return cfg, nil
}

// DatabasePath is the SQLite database location inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "deliverylog.db")
}
