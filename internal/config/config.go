package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	Addr           string `mapstructure:"addr"`
	StorageBackend string `mapstructure:"storage_backend"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	AuthMode       string `mapstructure:"auth_mode"`
	AuthToken      string `mapstructure:"auth_token"`
	AuthServiceURL string `mapstructure:"auth_service_url"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads configuration from the environment (with an optional .env
// file in the working directory) exactly once.
func Load() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !strings.Contains(err.Error(), "no such file") {
				panic("Invalid .env file: " + err.Error())
			}
		}
		v.AutomaticEnv()

		v.SetDefault("app_env", "development")
		v.SetDefault("log_level", "info")
		v.SetDefault("addr", ":8088")
		v.SetDefault("storage_backend", "sqlite")
		v.SetDefault("postgres_dsn", "")
		v.SetDefault("sqlite_path", "data/northstar.db")
		v.SetDefault("auth_mode", "local")
		v.SetDefault("auth_token", "MOCK-TOKEN")
		v.SetDefault("auth_service_url", "")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			panic("Invalid config: " + err.Error())
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.StorageBackend != "postgres" && c.StorageBackend != "sqlite" {
		return errors.New("STORAGE_BACKEND must be one of: postgres, sqlite")
	}
	if c.StorageBackend == "postgres" && c.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.StorageBackend == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
	}
	switch c.AuthMode {
	case "local":
		if c.AuthToken == "" {
			return errors.New("AUTH_TOKEN is required when AUTH_MODE=local")
		}
	case "store":
	case "remote":
		if c.AuthServiceURL == "" {
			return errors.New("AUTH_SERVICE_URL is required when AUTH_MODE=remote")
		}
	default:
		return errors.New("AUTH_MODE must be one of: local, store, remote")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}
