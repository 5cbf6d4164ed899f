package config

import (
	"os"
	"path/filepath"
)

const (
	defaultMylarHost          = "localhost"
	defaultMylarPort          = 8090
	defaultComicVineBaseURL   = "https://comicvine.gamespot.com/api/issues"
	defaultSensorDays         = 5
	defaultSensorUnit         = "MB"
	defaultRefreshInterval    = 300
	defaultAPIBind            = "127.0.0.1:7788"
	defaultLockPath           = "~/.local/share/mylarsensor/mylarsensord.lock"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNtfyRequestTimeout = 10
	defaultCacheFileName      = "mylar.cache"
)

func defaultCachePath() string {
	return filepath.Join(os.TempDir(), defaultCacheFileName)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Mylar: Mylar{
			Host: defaultMylarHost,
			Port: defaultMylarPort,
		},
		ComicVine: ComicVine{
			BaseURL: defaultComicVineBaseURL,
		},
		Sensors: Sensors{
			Monitored:    []string{"history"},
			Days:         defaultSensorDays,
			IncludePaths: []string{},
			Unit:         defaultSensorUnit,
		},
		Cache: Cache{
			Path: defaultCachePath(),
		},
		Refresh: Refresh{
			IntervalSeconds: defaultRefreshInterval,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Daemon: Daemon{
			APIBind:  defaultAPIBind,
			LockPath: defaultLockPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
