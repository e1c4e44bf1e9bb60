package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "simplefeed.yaml"

var (
	ErrInvalidDriver   = errors.New("invalid storage driver")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidLevel    = errors.New("invalid log level")
)

// ValidDrivers lists the accepted storage.driver values.
var ValidDrivers = []string{"badger", "sqlite"}

// Config holds all simplefeed configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Validation ValidationConfig `yaml:"validation"`
	Flash      FlashConfig      `yaml:"flash"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP listener. Durations are Go duration
// strings such as "15s".
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StorageConfig selects the store. An empty Path means the driver default.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Path      string `yaml:"path"`
	BackupDir string `yaml:"backup_dir"`
}

type ValidationConfig struct {
	DuplicatePostCheck    bool `yaml:"duplicate_post_check"`
	DuplicateCommentCheck bool `yaml:"duplicate_comment_check"`
}

// FlashConfig holds the flash cookie signing secret. A random key is used
// when it is empty, so flashes do not survive a restart.
type FlashConfig struct {
	Secret string `yaml:"secret"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			ShutdownTimeout: "10s",
		},
		Storage: StorageConfig{
			Driver:    "badger",
			BackupDir: "data/backups",
		},
		Validation: ValidationConfig{
			DuplicatePostCheck:    true,
			DuplicateCommentCheck: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from path. Missing files yield defaults and
// keys absent from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values Load cannot reject on its own.
func (c *Config) Validate() error {
	validDriver := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidDriver, c.Storage.Driver, ValidDrivers)
	}

	durations := map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	}
	for key, value := range durations {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidDuration, key, value)
		}
	}

	if _, err := c.Logging.zapLevel(); err != nil {
		return err
	}
	return nil
}

// StoragePath returns the configured path or the driver's default.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Driver == "sqlite" {
		return "data/simplefeed.db"
	}
	return "data/badger"
}

// GetReadTimeout returns the read timeout; zero disables it.
func (c *Config) GetReadTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ReadTimeout)
	return d
}

func (c *Config) GetWriteTimeout() time.Duration {
	d, _ := parseDuration(c.Server.WriteTimeout)
	return d
}

// GetShutdownTimeout falls back to ten seconds when unset.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ShutdownTimeout)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func (l LoggingConfig) zapLevel() (zapcore.Level, error) {
	switch l.Level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
}

// NewLogger builds the process logger. verbose forces debug level.
func (c *Config) NewLogger(verbose bool) (*zap.Logger, error) {
	level, err := c.Logging.zapLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
