package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Breaker   BreakerConfig   `yaml:"breaker"`
	View      ViewConfig      `yaml:"view"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the slog level and, when File is set, the rotating log
// file that replaces stdout.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

type ViewConfig struct {
	PageSize int `yaml:"page_size"`
}

const envPrefix = "AGENCYDESK_"

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "agencydesk.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Breaker: BreakerConfig{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
		},
		View: ViewConfig{
			PageSize: 12,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, later sources overriding earlier ones.
// Variables already set in the environment win over the .env file.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	cfg := Default()

	if path := os.Getenv(envPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.View.PageSize < 1 {
		return fmt.Errorf("invalid view page size %d", c.View.PageSize)
	}
	return nil
}

func loadEnvFile() error {
	path := os.Getenv(envPrefix + "ENV_FILE")
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(name string, dst *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) error {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = n
		return nil
	}
	setBool := func(name string, dst *bool) error {
		v := os.Getenv(envPrefix + name)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = b
		return nil
	}

	setString("SERVER_HOST", &cfg.Server.Host)
	setString("DB_PATH", &cfg.DB.Path)
	setString("LOG_LEVEL", &cfg.Log.Level)
	setString("LOG_FILE", &cfg.Log.File)
	setString("TRANSPORT_MODE", &cfg.Transport.Mode)
	cfg.Transport.Mode = strings.ToLower(cfg.Transport.Mode)

	for name, dst := range map[string]*int{
		"SERVER_PORT":      &cfg.Server.Port,
		"LOG_MAX_SIZE_MB":  &cfg.Log.MaxSizeMB,
		"LOG_MAX_BACKUPS":  &cfg.Log.MaxBackups,
		"LOG_MAX_AGE_DAYS": &cfg.Log.MaxAgeDays,
		"VIEW_PAGE_SIZE":   &cfg.View.PageSize,
	} {
		if err := setInt(name, dst); err != nil {
			return err
		}
	}
	if err := setBool("LOG_COMPRESS", &cfg.Log.Compress); err != nil {
		return err
	}
	if err := setBool("AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}

	if v := os.Getenv(envPrefix + "BREAKER_MAX_FAILURES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %sBREAKER_MAX_FAILURES: %w", envPrefix, err)
		}
		cfg.Breaker.MaxFailures = uint32(n)
	}
	if v := os.Getenv(envPrefix + "BREAKER_OPEN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sBREAKER_OPEN_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Breaker.OpenTimeout = d
	}
	return nil
}
