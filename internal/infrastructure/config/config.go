// Package config loads gong-mcp settings. Precedence, lowest first:
// built-in defaults, the YAML file, a .env file in the working
// directory, and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
)

const (
	EnvConfigPath = "GONG_MCP_CONFIG"
	EnvDockerHint = "DOCKER_ENV"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Gong       GongConfig       `yaml:"gong"`
	MCP        MCPConfig        `yaml:"mcp"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Journal    JournalConfig    `yaml:"journal"`
	Log        LogConfig        `yaml:"log"`
}

type GongConfig struct {
	BaseURL         string `yaml:"base_url"`
	AccessKey       string `yaml:"access_key"`
	AccessKeySecret string `yaml:"access_key_secret"`
}

type MCPConfig struct {
	ServerName string `yaml:"server_name" validate:"required"`
	Transport  string `yaml:"transport" validate:"oneof=stdio http"`
	Host       string `yaml:"host" validate:"required"`
	Port       int    `yaml:"port" validate:"min=1,max=65535"`
	// OpsPort serves health, status and metrics next to the HTTP
	// transport. 0 disables it.
	OpsPort int `yaml:"ops_port" validate:"min=0,max=65535,nefield=Port"`
}

type ResilienceConfig struct {
	Timeout        time.Duration        `yaml:"timeout" validate:"gt=0"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

type CircuitBreakerConfig struct {
	FailureThreshold uint32        `yaml:"failure_threshold" validate:"min=1"`
	SuccessThreshold uint32        `yaml:"success_threshold" validate:"min=1"`
	HalfOpenTimeout  time.Duration `yaml:"half_open_timeout" validate:"gt=0"`
}

// RateLimitConfig allows Rate requests per Interval. Rate 0 disables it.
type RateLimitConfig struct {
	Rate     int           `yaml:"rate" validate:"min=0"`
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

type JournalConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir" validate:"required_if=Enabled true"`
	Retention time.Duration `yaml:"retention" validate:"min=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		MCP: MCPConfig{
			ServerName: "gong-mcp",
			Transport:  TransportStdio,
			Host:       DefaultHost(),
			Port:       8080,
			OpsPort:    8081,
		},
		Resilience: ResilienceConfig{
			Timeout: 30 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				SuccessThreshold: 1,
				HalfOpenTimeout:  30 * time.Second,
			},
			RateLimit: RateLimitConfig{
				Rate:     3,
				Interval: time.Second,
			},
		},
		Journal: JournalConfig{
			Enabled:   true,
			Dir:       filepath.Join(home, ".gong-mcp"),
			Retention: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultHost binds every interface inside a container and loopback
// elsewhere.
func DefaultHost() string {
	if os.Getenv(EnvDockerHint) != "" {
		return "0.0.0.0"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

// DefaultPath is ~/.gong-mcp/config.yaml unless GONG_MCP_CONFIG is set.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gong-mcp", "config.yaml")
}

// Load reads the default config file, the working-directory .env file,
// and the environment. Missing files are not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath(), ".env")
}

func LoadFrom(path, dotenv string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// godotenv.Load never overrides variables already in the environment.
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", dotenv, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Credentials returns nil when no Gong credential is set anywhere and an
// error when only some are or when the base URL is unusable.
func (c *Config) Credentials() (*account.Credentials, error) {
	if len(c.Invalid()) > 0 {
		return nil, fmt.Errorf("%w: %s must be an http(s) URL", account.ErrInvalidBaseURL, account.EnvBaseURL)
	}
	return account.NewCredentials(c.Gong.BaseURL, c.Gong.AccessKey, c.Gong.AccessKeySecret)
}

// Missing lists the credential environment variables that are unset.
func (c *Config) Missing() []string {
	return account.Missing(c.Gong.BaseURL, c.Gong.AccessKey, c.Gong.AccessKeySecret)
}

// Invalid lists the credential environment variables that are set to an
// unusable value. They leave the adapter unconfigured; startup goes on.
func (c *Config) Invalid() []string {
	if c.Gong.BaseURL == "" {
		return nil
	}
	if err := validator.New().Var(c.Gong.BaseURL, "http_url"); err != nil {
		return []string{account.EnvBaseURL}
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Gong.BaseURL, account.EnvBaseURL)
	setString(&c.Gong.AccessKey, account.EnvAccessKey)
	setString(&c.Gong.AccessKeySecret, account.EnvAccessKeySecret)

	setString(&c.MCP.ServerName, "GONG_MCP_SERVER_NAME")
	setString(&c.MCP.Transport, "GONG_MCP_TRANSPORT")
	setString(&c.MCP.Host, "GONG_MCP_HOST")
	setString(&c.Journal.Dir, "GONG_MCP_JOURNAL_DIR")
	setString(&c.Log.Level, "GONG_MCP_LOG_LEVEL")
	setString(&c.Log.Format, "GONG_MCP_LOG_FORMAT")

	if err := setInt(&c.MCP.Port, "GONG_MCP_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.MCP.OpsPort, "GONG_MCP_OPS_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Resilience.RateLimit.Rate, "GONG_MCP_RATE_LIMIT"); err != nil {
		return err
	}
	if err := setDuration(&c.Resilience.Timeout, "GONG_MCP_TIMEOUT"); err != nil {
		return err
	}
	if err := setBool(&c.Journal.Enabled, "GONG_MCP_JOURNAL_ENABLED"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
