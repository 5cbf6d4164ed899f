package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Mylar contains connection settings for the Mylar backend API.
type Mylar struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	URLBase string `toml:"urlbase"`
	SSL     bool   `toml:"ssl"`
	APIKey  string `toml:"api_key"`
}

// ComicVine contains settings for the ComicVine catalog API used for
// issue metadata enrichment.
type ComicVine struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Sensors selects which sensor variants are refreshed and how history
// entries are windowed.
type Sensors struct {
	Monitored []string `toml:"monitored"`
	Days      int      `toml:"days"`
	// IncludePaths and Unit are accepted for compatibility with existing
	// deployments; the pipeline does not currently consume them.
	IncludePaths []string `toml:"include_paths"`
	Unit         string   `toml:"unit"`
}

// Cache contains configuration for the durable enrichment metadata cache.
type Cache struct {
	Path string `toml:"path"`
}

// Refresh contains the refresh scheduling interval.
type Refresh struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Daemon contains daemon runtime settings.
type Daemon struct {
	APIBind  string `toml:"api_bind"`
	LockPath string `toml:"lock_path"`
}

// Config encapsulates all configuration values for mylarsensor.
//
// Configuration sections by subsystem:
//   - Mylar: primary backend connection (history/upcoming feeds)
//   - ComicVine: secondary catalog API for metadata enrichment
//   - Sensors: monitored variants and the history day window
//   - Cache: durable enrichment cache location
//   - Refresh: refresh cycle interval
//   - Notifications: ntfy push notification settings
//   - Daemon: API bind address and instance lock
//   - Logging: log format, level, and optional file output
type Config struct {
	Mylar         Mylar         `toml:"mylar"`
	ComicVine     ComicVine     `toml:"comicvine"`
	Sensors       Sensors       `toml:"sensors"`
	Cache         Cache         `toml:"cache"`
	Refresh       Refresh       `toml:"refresh"`
	Notifications Notifications `toml:"notifications"`
	Daemon        Daemon        `toml:"daemon"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mylarsensor/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to target.
func CreateSample(target string) error {
	return os.WriteFile(target, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("MYLARSENSOR_CONFIG"))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mylarsensor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
