package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ytget/videodl/internal/download"
	"github.com/ytget/videodl/internal/logger"
)

// Config file location
const (
	AppDirName     = "videodl"
	ConfigFileName = "config.toml"
	EnvPrefix      = "VIDEODL_"
)

// Config holds the application configuration that is not a user preference
type Config struct {
	Tools    ToolsConfig    `toml:"tools"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Download DownloadConfig `toml:"download"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ToolsConfig overrides the lookup of external executables
type ToolsConfig struct {
	YTDLPPath  string `toml:"ytdlp_path"`
	FFmpegPath string `toml:"ffmpeg_path"`
}

// BridgeConfig configures the local endpoint used by the browser extension
type BridgeConfig struct {
	Enabled       bool    `toml:"enabled"`
	Host          string  `toml:"host"`
	Port          int     `toml:"port"`
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// DownloadConfig tunes direct downloads
type DownloadConfig struct {
	SocketTimeoutSeconds int    `toml:"socket_timeout_seconds"`
	Retries              int    `toml:"retries"`
	ChunkSize            int    `toml:"chunk_size"`
	DefaultReferer       string `toml:"default_referer"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Enabled:       true,
			Host:          "127.0.0.1",
			Port:          8765,
			RatePerSecond: 5,
			Burst:         10,
		},
		Download: DownloadConfig{
			SocketTimeoutSeconds: int(download.DefaultSocketTimeout / time.Second),
			Retries:              download.DefaultRetries,
			ChunkSize:            download.DefaultChunkSize,
			DefaultReferer:       "https://www.udemy.com/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logger.FormatConsole,
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads path (or the default location when empty), applies .env and
// VIDEODL_* overrides and validates the result. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as TOML to path, creating the directory when needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Bridge.Port < 1 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge port %d out of range (1-65535)", c.Bridge.Port)
	}
	if c.Bridge.Host == "" {
		return fmt.Errorf("bridge host cannot be empty")
	}
	if c.Bridge.RatePerSecond <= 0 || c.Bridge.Burst < 1 {
		return fmt.Errorf("bridge rate limit must be positive")
	}
	if c.Download.SocketTimeoutSeconds <= 0 {
		return fmt.Errorf("socket timeout must be positive, got %d", c.Download.SocketTimeoutSeconds)
	}
	if c.Download.Retries < 0 {
		return fmt.Errorf("retries cannot be negative")
	}
	if c.Download.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Download.ChunkSize)
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("unsupported log level %q (valid: debug, info, warn, error)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q (valid: console, json)", c.Logging.Format)
	}
	return nil
}

// DownloaderConfig converts the download section for download.New
func (c *Config) DownloaderConfig() download.Config {
	return download.Config{
		FFmpegPath:     c.Tools.FFmpegPath,
		SocketTimeout:  time.Duration(c.Download.SocketTimeoutSeconds) * time.Second,
		Retries:        c.Download.Retries,
		ChunkSize:      c.Download.ChunkSize,
		DefaultReferer: c.Download.DefaultReferer,
	}
}

// LoggerOptions converts the logging section for logger.New
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.Logging.Level,
		Format: strings.ToLower(c.Logging.Format),
		File:   c.Logging.File,
	}
}

// BridgeAddr returns host:port for the bridge listener
func (c *Config) BridgeAddr() string {
	return c.Bridge.Host + ":" + strconv.Itoa(c.Bridge.Port)
}

func (c *Config) applyEnv() {
	setString(&c.Tools.YTDLPPath, "YTDLP_PATH")
	setString(&c.Tools.FFmpegPath, "FFMPEG_PATH")
	setBool(&c.Bridge.Enabled, "BRIDGE_ENABLED")
	setString(&c.Bridge.Host, "BRIDGE_HOST")
	setInt(&c.Bridge.Port, "BRIDGE_PORT")
	setFloat(&c.Bridge.RatePerSecond, "BRIDGE_RATE_PER_SECOND")
	setInt(&c.Bridge.Burst, "BRIDGE_BURST")
	setInt(&c.Download.SocketTimeoutSeconds, "SOCKET_TIMEOUT_SECONDS")
	setInt(&c.Download.Retries, "RETRIES")
	setInt(&c.Download.ChunkSize, "CHUNK_SIZE")
	setString(&c.Download.DefaultReferer, "DEFAULT_REFERER")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	setString(&c.Logging.File, "LOG_FILE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	}
}
