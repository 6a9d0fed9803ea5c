package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"

	envPrefix = "LIFETRACK"
)

// Config aggregates all runtime settings.
type Config struct {
	Storage  StorageConfig
	Log      LogConfig
	Timezone string
	Stats    StatsConfig
}

type StorageConfig struct {
	Driver string
	Path   string
}

type LogConfig struct {
	Level    string
	Encoding string
}

// StatsConfig sizes the rolling aggregates.
type StatsConfig struct {
	Days          int
	WeeklyWindow  int
	MonthlyWindow int
}

// Dir returns the per-user data directory (~/.lifetrack).
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".lifetrack"), nil
}

// Load reads configuration from an optional file, an optional .env file and
// LIFETRACK_* environment variables, in increasing precedence.
// An empty path means ~/.lifetrack/config.yaml, which may be absent.
func Load(path string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			Path:   v.GetString("storage.path"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		Timezone: v.GetString("timezone"),
		Stats: StatsConfig{
			Days:          v.GetInt("stats.days"),
			WeeklyWindow:  v.GetInt("stats.weekly_window"),
			MonthlyWindow: v.GetInt("stats.monthly_window"),
		},
	}

	// each driver gets its own default file so switching drivers never opens
	// a SQLite file with bbolt
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultPath(dir, cfg.Storage.Driver)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("timezone", "")
	v.SetDefault("stats.days", 30)
	v.SetDefault("stats.weekly_window", 7)
	v.SetDefault("stats.monthly_window", 30)
}

func defaultPath(dir, driver string) string {
	if driver == DriverBolt {
		return filepath.Join(dir, "lifetrack.bolt")
	}
	return filepath.Join(dir, "lifetrack.db")
}

// Validate checks values that would otherwise fail later in confusing ways.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("unknown storage driver %q (use %s or %s)", c.Storage.Driver, DriverSQLite, DriverBolt)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Stats.Days < 1 || c.Stats.WeeklyWindow < 1 || c.Stats.MonthlyWindow < 1 {
		return fmt.Errorf("stats windows must be positive")
	}
	return nil
}

// Location resolves Timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
