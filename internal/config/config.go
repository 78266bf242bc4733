package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "LOCALDEMY"

// Config holds all application configuration
type Config struct {
	// Paths
	ConfigDir       string // $CONFIG_DIR, default ~/.config/localdemy
	ProgressFile    string // $CONFIG_DIR/progress.json
	LogFile         string // $CONFIG_DIR/localdemy.log
	WindowStateFile string // $CONFIG_DIR/window.json

	// Playback
	Player          string
	NativeSubtitles bool
	PollInterval    time.Duration

	// Persistence
	SaveInterval time.Duration

	// Logging
	LogLevel string
}

// Load reads configuration from a .env file, LOCALDEMY_* environment
// variables and an optional config.yaml inside the config directory.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore if not found)
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("player", "mpv")
	v.SetDefault("native_subtitles", false)
	v.SetDefault("poll_interval", "200ms")
	v.SetDefault("save_interval", "10s")
	v.SetDefault("log_level", "info")

	configDir, err := resolveConfigDir(v.GetString("config_dir"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		ConfigDir:       configDir,
		ProgressFile:    pathOrDefault(v.GetString("progress_file"), configDir, "progress.json"),
		LogFile:         pathOrDefault(v.GetString("log_file"), configDir, "localdemy.log"),
		WindowStateFile: filepath.Join(configDir, "window.json"),

		Player:          v.GetString("player"),
		NativeSubtitles: v.GetBool("native_subtitles"),
		PollInterval:    v.GetDuration("poll_interval"),

		SaveInterval: v.GetDuration("save_interval"),

		LogLevel: v.GetString("log_level"),
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll_interval must be positive")
	}
	if cfg.SaveInterval <= 0 {
		return nil, fmt.Errorf("save_interval must be positive")
	}
	return cfg, nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "localdemy"), nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for config_dir: %w", err)
	}
	return absPath, nil
}

func pathOrDefault(value, dir, name string) string {
	if value == "" {
		return filepath.Join(dir, name)
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(dir, value)
}
