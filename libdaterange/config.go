package libdaterange

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Extractor names accepted in Config.Extractor. Any other value names a
// daterange-<name> plugin on PATH.
const (
	ExtractorNatural = "natural"
	ExtractorRemote  = "remote"
)

// Config represents the persisted CLI configuration
type Config struct {
	MonthFirst bool          `mapstructure:"month_first"`
	Extractor  string        `mapstructure:"extractor"`
	RemoteURL  string        `mapstructure:"remote_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Format     string        `mapstructure:"format"`
	Workers    int           `mapstructure:"workers"`
	LogLevel   string        `mapstructure:"log_level"`
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Extractor == ExtractorRemote && c.RemoteURL == "" {
		return fmt.Errorf("extractor %q requires remote_url", ExtractorRemote)
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// ConfigManager handles configuration persistence
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a configuration manager rooted at ~/.daterange
func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewConfigManagerAt(filepath.Join(homeDir, ".daterange"))
}

// NewConfigManagerAt creates a configuration manager storing config.yaml in dir
func NewConfigManagerAt(dir string) (*ConfigManager, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &ConfigManager{
		configPath: filepath.Join(dir, "config.yaml"),
	}, nil
}

// Path returns the location of the configuration file.
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

func (cm *ConfigManager) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(cm.configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DATERANGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("month_first", false)
	v.SetDefault("extractor", ExtractorNatural)
	v.SetDefault("remote_url", "")
	v.SetDefault("timeout", DefaultRemoteTimeout)
	v.SetDefault("format", "text")
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	return v
}

// Load loads the configuration from disk, applying defaults and DATERANGE_* environment overrides
func (cm *ConfigManager) Load() (*Config, error) {
	v := cm.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// Save saves the configuration to disk
func (cm *ConfigManager) Save(config *Config) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("month_first", config.MonthFirst)
	v.Set("extractor", config.Extractor)
	v.Set("remote_url", config.RemoteURL)
	v.Set("timeout", config.Timeout.String())
	v.Set("format", config.Format)
	v.Set("workers", config.Workers)
	v.Set("log_level", config.LogLevel)

	if err := v.WriteConfigAs(cm.configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(cm.configPath, 0600)
}
