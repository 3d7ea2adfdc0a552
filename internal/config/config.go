package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config.yml"
	envPrefix   = "TASKMANAGER"

	// DevJWTSecret signs tokens when no secret is configured in development mode.
	DevJWTSecret = "taskmanager-dev-secret"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	Auth       AuthConfig       `yaml:"auth"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RateLimitRPM    int           `yaml:"rate_limit_rpm"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int32         `yaml:"max_connections"`
	MinConnections int32         `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	ConnectRetries int           `yaml:"connect_retries"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" or "inmemory"
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "5000",
			Host:            "",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPM:    100,
			CORSOrigins:     []string{"http://localhost:8080"},
		},
		Database: DatabaseConfig{
			MaxConnections: 5,
			MinConnections: 0,
			IdleTimeout:    10 * time.Second,
			AcquireTimeout: 30 * time.Second,
			ConnectRetries: 5,
		},
		Logging: LoggingConfig{
			Development: true,
			Level:       "info",
		},
		Repository: RepositoryConfig{
			Type: RepositoryPostgres,
		},
		Auth: AuthConfig{
			TokenTTL:   7 * 24 * time.Hour,
			BcryptCost: 12,
		},
	}
}

// Load builds the configuration from defaults, the yaml file at path,
// a .env file in the working directory and finally the environment.
// A missing file is an error only when path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)

	if cfg.Auth.JWTSecret == "" && cfg.Logging.Development {
		cfg.Auth.JWTSecret = DevJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bind := func(key string, aliases ...string) {
		names := append([]string{key, envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		_ = v.BindEnv(names...)
	}

	bind("server.host")
	bind("server.port", "PORT")
	bind("server.rate_limit_rpm")
	bind("server.cors_origins", "CLIENT_URL")
	bind("database.url", "DATABASE_URL")
	bind("database.max_connections")
	bind("database.acquire_timeout")
	bind("logging.development")
	bind("logging.level", "LOG_LEVEL")
	bind("repository.type")
	bind("auth.jwt_secret", "JWT_SECRET")
	bind("auth.token_ttl", "JWT_EXPIRES_IN")
	bind("auth.bcrypt_cost")

	if v.IsSet("server.host") {
		cfg.Server.Host = v.GetString("server.host")
	}
	if v.IsSet("server.port") {
		cfg.Server.Port = v.GetString("server.port")
	}
	if v.IsSet("server.rate_limit_rpm") {
		cfg.Server.RateLimitRPM = v.GetInt("server.rate_limit_rpm")
	}
	if v.IsSet("server.cors_origins") {
		cfg.Server.CORSOrigins = splitList(v.GetString("server.cors_origins"))
	}
	if v.IsSet("database.url") {
		cfg.Database.URL = v.GetString("database.url")
	}
	if v.IsSet("database.max_connections") {
		cfg.Database.MaxConnections = v.GetInt32("database.max_connections")
	}
	if v.IsSet("database.acquire_timeout") {
		cfg.Database.AcquireTimeout = v.GetDuration("database.acquire_timeout")
	}
	if v.IsSet("logging.development") {
		cfg.Logging.Development = v.GetBool("logging.development")
	}
	if v.IsSet("logging.level") {
		cfg.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("repository.type") {
		cfg.Repository.Type = v.GetString("repository.type")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = parseTTL(v.GetString("auth.token_ttl"), cfg.Auth.TokenTTL)
	}
	if v.IsSet("auth.bcrypt_cost") {
		cfg.Auth.BcryptCost = v.GetInt("auth.bcrypt_cost")
	}
}

// parseTTL accepts Go durations and a day suffix ("7d").
func parseTTL(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "d") {
		var days int
		if _, err := fmt.Sscanf(strings.TrimSuffix(raw, "d"), "%d", &days); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for the postgres repository")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("config: unknown repository type %q", c.Repository.Type)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret must be set outside development mode")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: bcrypt_cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: auth.token_ttl must be positive")
	}
	if c.Database.MaxConnections <= 0 {
		return errors.New("config: database.max_connections must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
