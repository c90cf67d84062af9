package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ultimate-research/eff-lib/internal/logger"
)

// Config is the optional effconv configuration file
// (~/.config/effconv/config.yaml). Flags win over config values.
type Config struct {
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "effconv", "config.yaml")
}

// loadConfig reads the config file; a missing or unreadable file means
// an empty config.
func loadConfig() Config {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(raw, &cfg)
	return cfg
}

// applyConfig applies config file defaults to flag-backed variables
// when the corresponding flag was not set on the command line.
func applyConfig(c *cli.Command, cfg Config, logLevel, logFormat *string) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		*logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		*logFormat = cfg.LogFormat
	}
}

func newLogger(level, format string) logger.Logger {
	var lv slog.Level
	switch level {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}

	switch format {
	case "json":
		return logger.JSON(os.Stderr, lv)
	case "text":
		return logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
	default:
		return logger.Pretty(os.Stderr, lv)
	}
}
