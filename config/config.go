package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DefaultPort            = 8000
	DefaultDatabaseName    = "ai_video"
	DefaultExchange        = "video.events"
	DefaultListLimit       = 50
	DefaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		Environment     string        `yaml:"environment"`
		CORSAllowOrigin string        `yaml:"cors_allow_origin"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		URL  string `yaml:"url"`
		Name string `yaml:"name"`
	} `yaml:"database"`
	RabbitMQ struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Videos struct {
		DefaultListLimit int `yaml:"default_list_limit"`
	} `yaml:"videos"`
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and the process environment, in increasing precedence.
// A missing YAML or .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DEFAULT_LIST_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEFAULT_LIST_LIMIT %q: %w", v, err)
		}
		c.Videos.DefaultListLimit = limit
	}
	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		c.Server.ShutdownTimeout = d
	}

	setString(&c.Server.Environment, "ENVIRONMENT")
	setString(&c.Server.CORSAllowOrigin, "CORS_ALLOW_ORIGIN")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Name, "DATABASE_NAME")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")
	setString(&c.Log.Level, "LOG_LEVEL")
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "production"
	}
	if c.Server.CORSAllowOrigin == "" {
		c.Server.CORSAllowOrigin = "*"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Database.Name == "" {
		c.Database.Name = DefaultDatabaseName
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = DefaultExchange
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Videos.DefaultListLimit <= 0 {
		c.Videos.DefaultListLimit = DefaultListLimit
	}
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
