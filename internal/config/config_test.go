package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mylarsensor/internal/config"
)

func TestLoadDefaultsUseEnvKeysAndExpandPaths(t *testing.T) {
	t.Setenv("MYLAR_API_KEY", "mylar-key")
	t.Setenv("COMICVINE_API_KEY", "cv-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("MYLARSENSOR_CONFIG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Mylar.APIKey != "mylar-key" {
		t.Fatalf("expected Mylar key from env, got %q", cfg.Mylar.APIKey)
	}
	if cfg.ComicVine.APIKey != "cv-key" {
		t.Fatalf("expected ComicVine key from env, got %q", cfg.ComicVine.APIKey)
	}
	if cfg.Mylar.Host != "localhost" || cfg.Mylar.Port != 8090 {
		t.Fatalf("unexpected Mylar defaults: %q:%d", cfg.Mylar.Host, cfg.Mylar.Port)
	}
	if got, want := cfg.Cache.Path, filepath.Join(os.TempDir(), "mylar.cache"); got != want {
		t.Fatalf("unexpected cache path: got %q want %q", got, want)
	}
	if len(cfg.Sensors.Monitored) != 1 || cfg.Sensors.Monitored[0] != "history" {
		t.Fatalf("unexpected monitored default: %v", cfg.Sensors.Monitored)
	}
	if cfg.Sensors.IncludePaths == nil {
		t.Fatal("expected include_paths to default to an empty slice, not nil")
	}
	if cfg.Sensors.Days != 5 {
		t.Fatalf("unexpected days default: %d", cfg.Sensors.Days)
	}
	if cfg.Daemon.APIBind != "127.0.0.1:7788" {
		t.Fatalf("unexpected api bind: %q", cfg.Daemon.APIBind)
	}
	if !strings.HasPrefix(cfg.Daemon.LockPath, tempHome) {
		t.Fatalf("expected lock path under temp HOME, got %q", cfg.Daemon.LockPath)
	}
}

func TestLoadParsesFileAndNormalizesURLBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[mylar]
host = "comics.local"
port = 8095
urlbase = "/mylar/"
ssl = true
api_key = "abc"

[comicvine]
api_key = "def"

[sensors]
monitored = ["Detailed_History", "detailed_history", "upcoming"]
days = 7
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Mylar.URLBase != "mylar/" {
		t.Fatalf("expected urlbase normalized to %q, got %q", "mylar/", cfg.Mylar.URLBase)
	}
	if !cfg.Mylar.SSL {
		t.Fatal("expected ssl enabled")
	}
	want := []string{"detailed_history", "upcoming"}
	if len(cfg.Sensors.Monitored) != len(want) {
		t.Fatalf("expected deduped monitored list %v, got %v", want, cfg.Sensors.Monitored)
	}
	for i, name := range want {
		if cfg.Sensors.Monitored[i] != name {
			t.Fatalf("monitored[%d]: got %q want %q", i, cfg.Sensors.Monitored[i], name)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing mylar key", func(c *config.Config) { c.Mylar.APIKey = "" }, "mylar.api_key"},
		{"missing comicvine key", func(c *config.Config) { c.ComicVine.APIKey = "" }, "comicvine.api_key"},
		{"bad port", func(c *config.Config) { c.Mylar.Port = 70000 }, "mylar.port"},
		{"unknown sensor", func(c *config.Config) { c.Sensors.Monitored = []string{"nope"} }, "unknown sensor type"},
		{"zero days", func(c *config.Config) { c.Sensors.Days = -1 }, "sensors.days"},
		{"zero interval", func(c *config.Config) { c.Refresh.IntervalSeconds = -5 }, "refresh.interval_seconds"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Mylar.APIKey = "a"
			cfg.ComicVine.APIKey = "b"
			cfg.Notifications.RequestTimeout = 10
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYLAR_API_KEY", "a")
	t.Setenv("COMICVINE_API_KEY", "b")

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
