package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/hub"
)

// EnvPrefix префикс переменных окружения сервера
const EnvPrefix = "GOPHTODO_"

// Config конфигурация сервера.
// Приоритет источников: значения по умолчанию, YAML файл, окружение, флаги.
type Config struct {
	Address           string        `yaml:"address"`
	DatabasePath      string        `yaml:"database_path"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	JWTSecret         string        `yaml:"jwt_secret"`
	ConfigPath        string        `yaml:"-"`
	IssueToken        string        `yaml:"-"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	RateWindow        time.Duration `yaml:"rate_window"`
	PingInterval      time.Duration `yaml:"ping_interval"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	LeaseCommandRate  float64       `yaml:"lease_command_rate"`
	RateLimit         int           `yaml:"rate_limit"`
	LeaseCommandBurst int           `yaml:"lease_command_burst"`
	SendQueueSize     int           `yaml:"send_queue_size"`
	ShowVersion       bool          `yaml:"-"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Address:           ":8080",
		DatabasePath:      "gophtodo.db",
		LogLevel:          "info",
		LogFormat:         "text",
		TokenTTL:          30 * 24 * time.Hour,
		RateLimit:         300,
		RateWindow:        time.Minute,
		LeaseCommandRate:  20,
		LeaseCommandBurst: 40,
		PingInterval:      30 * time.Second,
		WriteTimeout:      10 * time.Second,
		SendQueueSize:     256,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load собирает конфигурацию из флагов args, YAML файла (-config) и окружения getenv
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	// Флаги пишутся во временную копию и применяются последними
	flagged := *cfg
	fs := flag.NewFlagSet("gophtodo-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&flagged.ConfigPath, "config", "", "Path to YAML config file")
	fs.StringVar(&flagged.Address, "address", cfg.Address, "HTTP listen address")
	fs.StringVar(&flagged.DatabasePath, "db", cfg.DatabasePath, "Path to SQLite database")
	fs.StringVar(&flagged.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&flagged.LogFormat, "log-format", cfg.LogFormat, "Log format: text, json")
	fs.StringVar(&flagged.JWTSecret, "jwt-secret", "", "JWT signing secret (empty disables authentication)")
	fs.DurationVar(&flagged.TokenTTL, "token-ttl", cfg.TokenTTL, "Access token lifetime")
	fs.IntVar(&flagged.RateLimit, "rate-limit", cfg.RateLimit, "HTTP requests per rate window per client IP")
	fs.DurationVar(&flagged.RateWindow, "rate-window", cfg.RateWindow, "HTTP rate limit window")
	fs.Float64Var(&flagged.LeaseCommandRate, "lease-rate", cfg.LeaseCommandRate, "Lease commands per second per connection")
	fs.IntVar(&flagged.LeaseCommandBurst, "lease-burst", cfg.LeaseCommandBurst, "Lease command burst per connection")
	fs.DurationVar(&flagged.PingInterval, "ping-interval", cfg.PingInterval, "Websocket ping interval")
	fs.DurationVar(&flagged.WriteTimeout, "write-timeout", cfg.WriteTimeout, "Websocket write timeout")
	fs.IntVar(&flagged.SendQueueSize, "send-queue", cfg.SendQueueSize, "Outbound message queue size per connection")
	fs.DurationVar(&flagged.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	fs.StringVar(&flagged.IssueToken, "issue-token", "", "Print an access token for the client NAME and exit")
	fs.BoolVar(&flagged.ShowVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if flagged.ConfigPath != "" {
		if err := cfg.loadFile(flagged.ConfigPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	// Только явно заданные флаги перекрывают файл и окружение
	fs.Visit(func(f *flag.Flag) {
		cfg.applyFlag(f.Name, &flagged)
	})
	cfg.ConfigPath = flagged.ConfigPath
	cfg.IssueToken = flagged.IssueToken
	cfg.ShowVersion = flagged.ShowVersion

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	strVars := map[string]*string{
		"ADDRESS":       &c.Address,
		"DATABASE_PATH": &c.DatabasePath,
		"LOG_LEVEL":     &c.LogLevel,
		"LOG_FORMAT":    &c.LogFormat,
		"JWT_SECRET":    &c.JWTSecret,
	}
	for name, dst := range strVars {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}

	durVars := map[string]*time.Duration{
		"TOKEN_TTL":     &c.TokenTTL,
		"RATE_WINDOW":   &c.RateWindow,
		"PING_INTERVAL": &c.PingInterval,
		"WRITE_TIMEOUT": &c.WriteTimeout,
	}
	for name, dst := range durVars {
		v := getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
	}

	intVars := map[string]*int{
		"RATE_LIMIT":      &c.RateLimit,
		"SEND_QUEUE_SIZE": &c.SendQueueSize,
	}
	for name, dst := range intVars {
		v := getenv(EnvPrefix + name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	return nil
}

func (c *Config) applyFlag(name string, src *Config) {
	switch name {
	case "address":
		c.Address = src.Address
	case "db":
		c.DatabasePath = src.DatabasePath
	case "log-level":
		c.LogLevel = src.LogLevel
	case "log-format":
		c.LogFormat = src.LogFormat
	case "jwt-secret":
		c.JWTSecret = src.JWTSecret
	case "token-ttl":
		c.TokenTTL = src.TokenTTL
	case "rate-limit":
		c.RateLimit = src.RateLimit
	case "rate-window":
		c.RateWindow = src.RateWindow
	case "lease-rate":
		c.LeaseCommandRate = src.LeaseCommandRate
	case "lease-burst":
		c.LeaseCommandBurst = src.LeaseCommandBurst
	case "ping-interval":
		c.PingInterval = src.PingInterval
	case "write-timeout":
		c.WriteTimeout = src.WriteTimeout
	case "send-queue":
		c.SendQueueSize = src.SendQueueSize
	case "shutdown-timeout":
		c.ShutdownTimeout = src.ShutdownTimeout
	}
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	var errs []error

	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.JWTSecret != "" && c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}
	if c.IssueToken != "" && c.JWTSecret == "" {
		errs = append(errs, errors.New("issue-token requires jwt secret"))
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate limit and window must be positive"))
	}
	if c.LeaseCommandRate <= 0 || c.LeaseCommandBurst <= 0 {
		errs = append(errs, errors.New("lease command rate and burst must be positive"))
	}
	if c.PingInterval <= 0 || c.WriteTimeout <= 0 {
		errs = append(errs, errors.New("ping interval and write timeout must be positive"))
	}
	if c.SendQueueSize <= 0 {
		errs = append(errs, errors.New("send queue size must be positive"))
	}

	return errors.Join(errs...)
}

// JWT возвращает конфигурацию токенов; пустой секрет отключает аутентификацию
func (c *Config) JWT() handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:         []byte(c.JWTSecret),
		AccessTokenTTL: c.TokenTTL,
	}
}

// Hub возвращает параметры websocket соединений
func (c *Config) Hub() hub.Config {
	cfg := hub.DefaultConfig()
	cfg.PingInterval = c.PingInterval
	cfg.PongWait = c.PingInterval * 2
	cfg.WriteTimeout = c.WriteTimeout
	cfg.CommandRate = rate.Limit(c.LeaseCommandRate)
	cfg.CommandBurst = c.LeaseCommandBurst
	cfg.SendQueueSize = c.SendQueueSize
	return cfg
}

// NewLogger создает slog логгер с уровнем и форматом из конфигурации
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
