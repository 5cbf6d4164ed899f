package config

import (
	"errors"
	"fmt"
)

var validSensorTypes = map[string]struct{}{
	"history":           {},
	"detailed_history":  {},
	"upcoming":          {},
	"detailed_upcoming": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMylar(); err != nil {
		return err
	}
	if err := c.validateComicVine(); err != nil {
		return err
	}
	if err := c.validateSensors(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMylar() error {
	if c.Mylar.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/mylarsensor/config.toml"
		}
		return fmt.Errorf("mylar.api_key is required. Set MYLAR_API_KEY env var or edit %s (create with 'mylarsensor config init')", defaultPath)
	}
	if c.Mylar.Port < 1 || c.Mylar.Port > 65535 {
		return fmt.Errorf("mylar.port must be between 1 and 65535, got %d", c.Mylar.Port)
	}
	return nil
}

func (c *Config) validateComicVine() error {
	if c.ComicVine.APIKey == "" {
		return errors.New("comicvine.api_key is required. Set COMICVINE_API_KEY env var or edit the config file")
	}
	return nil
}

func (c *Config) validateSensors() error {
	if len(c.Sensors.Monitored) == 0 {
		return errors.New("sensors.monitored must include at least one sensor type")
	}
	for _, name := range c.Sensors.Monitored {
		if _, ok := validSensorTypes[name]; !ok {
			return fmt.Errorf("sensors.monitored: unknown sensor type %q", name)
		}
	}
	if c.Sensors.Days <= 0 {
		return errors.New("sensors.days must be positive")
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.IntervalSeconds <= 0 {
		return errors.New("refresh.interval_seconds must be positive")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
