// Package config handles the settings file and API credential resolution.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const defaultBaseURL = "https://api.deepseek.com"

type Config struct {
	BaseURL                string `json:"base_url"`
	RefreshIntervalSeconds int    `json:"refresh_interval_seconds"`
	History                bool   `json:"history"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:                defaultBaseURL,
		RefreshIntervalSeconds: 30,
		History:                true,
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "dsbc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dsbc")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

func HistoryPath() string {
	return filepath.Join(ConfigDir(), "history.db")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.RefreshIntervalSeconds < 5 {
		cfg.RefreshIntervalSeconds = DefaultConfig().RefreshIntervalSeconds
	}

	return cfg, nil
}

// saveMu guards read-modify-write cycles on the config file.
var saveMu sync.Mutex

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
