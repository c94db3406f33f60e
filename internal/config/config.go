package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Server     ServerConfig `mapstructure:"server" yaml:"server"`
	Confluence SiteConfig   `mapstructure:"confluence" yaml:"confluence"`
}

// ServerConfig holds tool-wide options.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// SiteConfig describes the Confluence instance and the account used for the
// remote API login handshake.
type SiteConfig struct {
	Site     string `mapstructure:"site" yaml:"site"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// HeaderAuth additionally sends the credentials as an HTTP basic
	// Authorization header, for instances behind an authenticating proxy.
	HeaderAuth bool `mapstructure:"header_auth" yaml:"header_auth,omitempty"`
}

// Load reads configuration from the provided file or directory and
// environment variables, fills missing credentials from .netrc, and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("confluence_session")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.applyNetrcDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReadFile reads a config file without validating it, for editing workflows.
// The boolean reports whether the file existed.
func ReadFile(path string) (*Config, bool, error) {
	cfg := &Config{Server: ServerConfig{LogLevel: "info"}}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, false, nil
		}
		return nil, false, fmt.Errorf("config: stat: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, true, fmt.Errorf("config: read: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, true, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}

	return cfg, true, nil
}

// Validate checks that the configuration is complete enough to open a
// session.
func (c *Config) Validate() error {
	if c.Confluence.Site == "" {
		return fmt.Errorf("config: confluence.site is required")
	}

	if c.Confluence.Username == "" || c.Confluence.Password == "" {
		return fmt.Errorf("config: confluence requires username and password")
	}

	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	return nil
}
