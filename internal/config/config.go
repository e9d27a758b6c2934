package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		Path            string        `yaml:"path"`
		Playground      bool          `yaml:"playground"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Storage struct {
		Type string `yaml:"type"`
	} `yaml:"storage"`
	File struct {
		Path string `yaml:"path"`
	} `yaml:"file"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Auth struct {
		Secret   string        `yaml:"secret"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default возвращает конфигурацию, совпадающую с поведением исходного сервиса
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "4000"
	cfg.Server.Path = "/posts"
	cfg.Server.Playground = true
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Storage.Type = StorageFile
	cfg.File.Path = "posts.json"
	cfg.SQLite.Path = "data/blog.db"
	cfg.Auth.TokenTTL = 24 * time.Hour
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load читает YAML поверх значений по умолчанию. Отсутствующий файл не является ошибкой.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		"BLOG_PORT":         &c.Server.Port,
		"BLOG_STORAGE":      &c.Storage.Type,
		"BLOG_FILE_PATH":    &c.File.Path,
		"BLOG_POSTGRES_DSN": &c.Postgres.DSN,
		"BLOG_SQLITE_PATH":  &c.SQLite.Path,
		"BLOG_AUTH_SECRET":  &c.Auth.Secret,
		"BLOG_LOG_LEVEL":    &c.Log.Level,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.Path == "" || c.Server.Path[0] != '/' {
		return fmt.Errorf("server.path must start with '/': %q", c.Server.Path)
	}
	switch c.Storage.Type {
	case StorageFile:
		if c.File.Path == "" {
			return errors.New("file.path is required for file storage")
		}
	case StorageMemory:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required for postgres storage")
		}
	case StorageSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	return nil
}
