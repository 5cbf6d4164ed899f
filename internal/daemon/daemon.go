package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/config"
	"mylarsensor/internal/logging"
	"mylarsensor/internal/metadatacache"
	"mylarsensor/internal/mylar"
	"mylarsensor/internal/notifications"
	"mylarsensor/internal/preflight"
	"mylarsensor/internal/sensor"
)

// Daemon owns the sensor set, drives the refresh schedule, and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	sensors  []*sensor.Sensor
	notifier notifications.Service
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	scheduler *cron.Cron

	refreshMu sync.Mutex
	available map[sensor.Type]bool

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool            `json:"running"`
	PID             int             `json:"pid"`
	IntervalSeconds int             `json:"interval_seconds"`
	LockFilePath    string          `json:"lock_file_path"`
	CachePath       string          `json:"cache_path"`
	Sensors         []sensor.Status `json:"sensors"`
}

// New constructs a daemon with one sensor per monitored variant.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	backend, err := mylar.New(cfg.Mylar)
	if err != nil {
		return nil, fmt.Errorf("build mylar client: %w", err)
	}
	catalog, err := comicvine.New(cfg.ComicVine.APIKey, cfg.ComicVine.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("build comicvine client: %w", err)
	}
	cache := metadatacache.NewStore(cfg.Cache.Path, logger)

	sensors, err := BuildSensors(cfg, backend, catalog, cache, logger)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		sensors:   sensors,
		notifier:  notifications.NewService(cfg),
		lockPath:  cfg.Daemon.LockPath,
		lock:      flock.New(cfg.Daemon.LockPath),
		available: make(map[sensor.Type]bool, len(sensors)),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// BuildSensors constructs the sensor set for the monitored variants. The
// one-shot status command shares this with the daemon.
func BuildSensors(cfg *config.Config, backend mylar.Fetcher, catalog sensor.CatalogLookup, cache *metadatacache.Store, logger *slog.Logger) ([]*sensor.Sensor, error) {
	sensors := make([]*sensor.Sensor, 0, len(cfg.Sensors.Monitored))
	for _, name := range cfg.Sensors.Monitored {
		t, err := sensor.ParseType(name)
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, sensor.New(t, cfg.Sensors.Days, backend, catalog, cache, logger))
	}
	return sensors, nil
}

// Start acquires the daemon lock, runs preflight checks, performs the first
// refresh, and schedules subsequent refreshes.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mylarsensor daemon instance is already running")
	}

	results := preflight.RunAll(ctx, d.cfg)
	for _, result := range results {
		if result.Passed {
			d.logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, "affected sensors stay unavailable until the backend recovers"))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			return err
		}
	}

	d.scheduler = cron.New()
	schedule := fmt.Sprintf("@every %ds", d.cfg.Refresh.IntervalSeconds)
	if _, err := d.scheduler.AddFunc(schedule, func() { d.refreshAll(d.ctx) }); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		return fmt.Errorf("schedule refresh: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("sensors", len(d.sensors)),
		logging.Int("interval_seconds", d.cfg.Refresh.IntervalSeconds))
	if err := d.notifier.NotifyDaemonStarted(d.ctx, len(d.sensors)); err != nil {
		d.logger.Warn("startup notification failed", logging.Error(err))
	}

	d.refreshAll(d.ctx)
	d.scheduler.Start()
	return nil
}

// Stop halts the refresh schedule and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.scheduler != nil {
		<-d.scheduler.Stop().Done()
		d.scheduler = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Wait blocks until the context given to Start is cancelled.
func (d *Daemon) Wait() {
	if d.ctx != nil {
		<-d.ctx.Done()
	}
}

// refreshAll runs one refresh cycle for every sensor and announces
// availability transitions. Cycles never overlap; a slow cycle delays the
// next one instead.
func (d *Daemon) refreshAll(ctx context.Context) {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	for _, s := range d.sensors {
		s.Refresh(ctx)
		status := s.Snapshot()

		was, seen := d.available[s.Type()]
		d.available[s.Type()] = status.Available
		switch {
		case seen && was && !status.Available:
			if err := d.notifier.NotifySensorUnavailable(ctx, status.Name, errors.New("backend fetch failed")); err != nil {
				d.logger.Warn("availability notification failed", logging.Error(err))
			}
		case seen && !was && status.Available:
			if err := d.notifier.NotifySensorRecovered(ctx, status.Name, status.Count); err != nil {
				d.logger.Warn("availability notification failed", logging.Error(err))
			}
		}
	}
}

// Sensors returns the daemon's sensor set.
func (d *Daemon) Sensors() []*sensor.Sensor {
	return d.sensors
}

// TestNotification triggers a test notification using the current
// configuration.
func (d *Daemon) TestNotification(ctx context.Context) error {
	return d.notifier.TestNotification(ctx)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	statuses := make([]sensor.Status, 0, len(d.sensors))
	for _, s := range d.sensors {
		statuses = append(statuses, s.Snapshot())
	}
	return Status{
		Running:         d.running.Load(),
		PID:             os.Getpid(),
		IntervalSeconds: d.cfg.Refresh.IntervalSeconds,
		LockFilePath:    d.lockPath,
		CachePath:       d.cfg.Cache.Path,
		Sensors:         statuses,
	}
}
