package testsupport

import (
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"testing"

	"mylarsensor/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Mylar.APIKey = "test"
	cfgVal.ComicVine.APIKey = "test"
	cfgVal.Cache.Path = filepath.Join(base, "mylar.cache")
	cfgVal.Daemon.LockPath = filepath.Join(base, "mylarsensord.lock")
	cfgVal.Daemon.APIBind = ""
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMonitored overrides the monitored sensor set on the test config.
func WithMonitored(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sensors.Monitored = names
	}
}

// WithMylarURL points the Mylar section at the given server URL, typically
// from httptest.
func WithMylarURL(rawURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mylar = MylarEndpoint(b.t, rawURL)
	}
}

// MylarEndpoint converts a server URL into Mylar connection settings.
func MylarEndpoint(t testing.TB, rawURL string) config.Mylar {
	t.Helper()

	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url %q: %v", rawURL, err)
	}
	host, portText, err := net.SplitHostPort(parsed.Host)
	if err != nil {
		t.Fatalf("split host %q: %v", parsed.Host, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		t.Fatalf("parse port %q: %v", portText, err)
	}
	return config.Mylar{
		Host:   host,
		Port:   port,
		SSL:    parsed.Scheme == "https",
		APIKey: "test",
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Cache.Path)
}
