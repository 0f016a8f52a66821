// Package config loads the server configuration from an optional YAML file
// in the data directory, POKER_* environment variables and flag overrides,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/spf13/viper"
)

const (
	appName        = "pokersrv"
	configFileName = "pokersrv.yaml"
	envPrefix      = "POKER"
)

type Config struct {
	Listen      string      `mapstructure:"listen"`
	DataDir     string      `mapstructure:"datadir"`
	DebugLevel  string      `mapstructure:"debuglevel"`
	MaxLogFiles int         `mapstructure:"maxlogfiles"`
	DB          DBConfig    `mapstructure:"db"`
	Redis       RedisConfig `mapstructure:"redis"`
	Table       TableConfig `mapstructure:"table"`
	Timing      Timing      `mapstructure:"timing"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, redis
	Path   string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TableConfig struct {
	SmallBlind    int64 `mapstructure:"smallblind"`
	BigBlind      int64 `mapstructure:"bigblind"`
	StartingChips int64 `mapstructure:"startingchips"`
}

type Timing struct {
	TurnTimeout   time.Duration `mapstructure:"turntimeout"`
	AutoDealDelay time.Duration `mapstructure:"autodealdelay"`
	SweepInterval time.Duration `mapstructure:"sweepinterval"`
	ListWindow    time.Duration `mapstructure:"listwindow"`
	IdleExpiry    time.Duration `mapstructure:"idleexpiry"`
}

// DefaultDataDir is the per-user application directory.
func DefaultDataDir() string {
	return dcrutil.AppDataDir(appName, false)
}

func setDefaults(v *viper.Viper, datadir string) {
	v.SetDefault("listen", "127.0.0.1:8080")
	v.SetDefault("datadir", datadir)
	v.SetDefault("debuglevel", "info")
	v.SetDefault("maxlogfiles", 3)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", filepath.Join(datadir, "rooms.db"))
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("table.smallblind", 10)
	v.SetDefault("table.bigblind", 20)
	v.SetDefault("table.startingchips", 1000)
	v.SetDefault("timing.turntimeout", 30*time.Second)
	v.SetDefault("timing.autodealdelay", 5*time.Second)
	v.SetDefault("timing.sweepinterval", time.Second)
	v.SetDefault("timing.listwindow", 5*time.Minute)
	v.SetDefault("timing.idleexpiry", time.Hour)
}

// Load reads the configuration rooted at datadir (DefaultDataDir when
// empty). overrides holds explicitly set flags keyed by config key.
func Load(datadir string, overrides map[string]interface{}) (*Config, error) {
	if datadir == "" {
		datadir = DefaultDataDir()
	}

	v := viper.New()
	setDefaults(v, datadir)

	v.SetConfigFile(filepath.Join(datadir, configFileName))
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	if c.Table.SmallBlind <= 0 || c.Table.BigBlind < c.Table.SmallBlind {
		return fmt.Errorf("invalid blinds %d/%d", c.Table.SmallBlind, c.Table.BigBlind)
	}
	if c.Table.StartingChips <= 0 {
		return fmt.Errorf("startingchips must be positive")
	}
	if c.Timing.SweepInterval <= 0 {
		return fmt.Errorf("sweepinterval must be positive")
	}
	return nil
}

// LogFile is where the server writes its rotated log.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "logs", appName+".log")
}
