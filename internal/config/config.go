package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sadopc/fitr/internal/logging"
	"github.com/sadopc/fitr/internal/store"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FITR_DB_PATH.
const EnvPrefix = "FITR"

// Config holds process settings. User preferences such as timer defaults
// live in the settings table instead.
type Config struct {
	DBPath   string `mapstructure:"db_path"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"db":        "db_path",
	"log-file":  "log_file",
	"log-level": "log_level",
	"log-json":  "log_json",
}

// NewFlagSet declares the command-line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (yaml or toml)")
	fs.String("db", "", "SQLite database path")
	fs.String("log-file", "", `log file path, "-" for stderr`)
	fs.String("log-level", "", "log level: trace, debug, info, warn, error")
	fs.Bool("log-json", false, "write logs as JSON")
	return fs
}

// Load resolves the configuration. Precedence, highest first: flags,
// FITR_* environment variables, the config file, built-in defaults.
// fs must come from NewFlagSet and already be parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("default db path: %w", err)
	}
	v.SetDefault("db_path", dbPath)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for flagName, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, fmt.Errorf("bind flag %q: %w", flagName, err)
		}
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(filepath.Dir(cfg.DBPath), "fitr.log")
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
