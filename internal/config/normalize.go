package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeMylar(); err != nil {
		return err
	}
	c.normalizeComicVine()
	c.normalizeSensors()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeMylar() error {
	c.Mylar.Host = strings.TrimSpace(c.Mylar.Host)
	if c.Mylar.Host == "" {
		c.Mylar.Host = defaultMylarHost
	}
	if c.Mylar.Port == 0 {
		c.Mylar.Port = defaultMylarPort
	}
	if c.Mylar.APIKey == "" {
		if value, ok := os.LookupEnv("MYLAR_API_KEY"); ok {
			c.Mylar.APIKey = strings.TrimSpace(value)
		}
	}
	// A non-empty urlbase always carries exactly one trailing slash so the
	// endpoint builder can join it blindly.
	base := strings.Trim(strings.TrimSpace(c.Mylar.URLBase), "/")
	if base != "" {
		base += "/"
	}
	c.Mylar.URLBase = base
	return nil
}

func (c *Config) normalizeComicVine() {
	if c.ComicVine.APIKey == "" {
		if value, ok := os.LookupEnv("COMICVINE_API_KEY"); ok {
			c.ComicVine.APIKey = strings.TrimSpace(value)
		}
	}
	c.ComicVine.BaseURL = strings.TrimRight(strings.TrimSpace(c.ComicVine.BaseURL), "/")
	if c.ComicVine.BaseURL == "" {
		c.ComicVine.BaseURL = defaultComicVineBaseURL
	}
}

func (c *Config) normalizeSensors() {
	if len(c.Sensors.Monitored) == 0 {
		c.Sensors.Monitored = []string{"history"}
	}
	monitored := make([]string, 0, len(c.Sensors.Monitored))
	seen := make(map[string]struct{}, len(c.Sensors.Monitored))
	for _, name := range c.Sensors.Monitored {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		monitored = append(monitored, normalized)
	}
	c.Sensors.Monitored = monitored
	if c.Sensors.Days == 0 {
		c.Sensors.Days = defaultSensorDays
	}
	if c.Sensors.IncludePaths == nil {
		c.Sensors.IncludePaths = []string{}
	}
	c.Sensors.Unit = strings.TrimSpace(c.Sensors.Unit)
	if c.Sensors.Unit == "" {
		c.Sensors.Unit = defaultSensorUnit
	}
	if c.Refresh.IntervalSeconds == 0 {
		c.Refresh.IntervalSeconds = defaultRefreshInterval
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if strings.TrimSpace(c.Daemon.LockPath) == "" {
		c.Daemon.LockPath = defaultLockPath
	}
	if c.Daemon.LockPath, err = expandPath(c.Daemon.LockPath); err != nil {
		return fmt.Errorf("daemon.lock_path: %w", err)
	}
	if c.Logging.Dir != "" {
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	c.Daemon.APIBind = strings.TrimSpace(c.Daemon.APIBind)
	if c.Daemon.APIBind == "" {
		c.Daemon.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
