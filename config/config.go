// Package config loads easysql connection and CLI settings from
// .easysql.yaml, EASYSQL_* environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/ashenguard/easysql/adapter"
)

// AppFs is the filesystem config files and .env files are read from.
var AppFs = afero.NewOsFs()

const (
	fileName  = ".easysql"
	envPrefix = "EASYSQL"
)

// Config holds the application configuration.
type Config struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdleTime    int    `mapstructure:"max_idle_time"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
	Debug          bool   `mapstructure:"debug"`
	SchemaPath     string `mapstructure:"schema_path"`
	Safety         bool   `mapstructure:"safety"`
}

// Adapter returns the connection part of the configuration.
func (c *Config) Adapter() adapter.Config {
	return adapter.Config{
		Provider:       c.Provider,
		URL:            c.URL,
		MaxConnections: c.MaxConnections,
		MaxIdleTime:    c.MaxIdleTime,
		ConnectTimeout: c.ConnectTimeout,
	}
}

func newViper() (*viper.Viper, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "easysql"))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("provider", "mysql")
	v.SetDefault("url", "")
	v.SetDefault("max_connections", 10)
	v.SetDefault("max_idle_time", 300)
	v.SetDefault("connect_timeout", 10)
	v.SetDefault("debug", false)
	v.SetDefault("schema_path", "tables.yaml")
	v.SetDefault("safety", true)
	return v, nil
}

// Load reads the configuration. Missing files are not an error; a config
// file that exists but cannot be parsed is.
func Load() (*Config, error) {
	if err := loadEnv(".env", ".env.local"); err != nil {
		return nil, err
	}

	v, err := newViper()
	if err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		cfg.URL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// loadEnv exports the variables of the given .env files. Later files win
// over earlier ones; variables already in the environment are kept.
func loadEnv(names ...string) error {
	merged := map[string]string{}
	for _, name := range names {
		f, err := AppFs.Open(name)
		if err != nil {
			continue
		}
		values, err := godotenv.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for key, value := range values {
			merged[key] = value
		}
	}

	for key, value := range merged {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Save writes cfg to $HOME/.config/easysql/.easysql.yaml.
func Save(cfg *Config) error {
	v, err := newViper()
	if err != nil {
		return err
	}
	v.Set("provider", cfg.Provider)
	v.Set("url", cfg.URL)
	v.Set("max_connections", cfg.MaxConnections)
	v.Set("max_idle_time", cfg.MaxIdleTime)
	v.Set("connect_timeout", cfg.ConnectTimeout)
	v.Set("debug", cfg.Debug)
	v.Set("schema_path", cfg.SchemaPath)
	v.Set("safety", cfg.Safety)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "easysql")
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return v.WriteConfigAs(filepath.Join(dir, fileName+".yaml"))
}
