package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mylarsensor/internal/logging"
	"mylarsensor/internal/metadatacache"
	"mylarsensor/internal/mylar"
)

// Sensor drives the refresh cycle for one variant and holds its exposed
// state: a count, a variant-specific attribute payload, and availability.
type Sensor struct {
	sensorType Type
	days       int
	backend    mylar.Fetcher
	catalog    CatalogLookup
	cache      *metadatacache.Store
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.RWMutex
	state       State
	count       int
	attributes  Attributes
	refreshedAt time.Time
}

// Status is a point-in-time copy of the sensor's exposed surface.
type Status struct {
	Type        Type       `json:"type"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	Available   bool       `json:"available"`
	Count       int        `json:"count"`
	Unit        string     `json:"unit"`
	Icon        string     `json:"icon"`
	Attributes  Attributes `json:"attributes"`
	RefreshedAt time.Time  `json:"refreshed_at"`
}

// Option configures a Sensor.
type Option func(*Sensor)

// WithClock overrides the wall clock (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Sensor) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a sensor for the given variant.
func New(sensorType Type, days int, backend mylar.Fetcher, catalog CatalogLookup, cache *metadatacache.Store, logger *slog.Logger, opts ...Option) *Sensor {
	s := &Sensor{
		sensorType: sensorType,
		days:       days,
		backend:    backend,
		catalog:    catalog,
		cache:      cache,
		logger:     logging.NewComponentLogger(logger, "sensor").With(logging.String(logging.FieldSensor, string(sensorType))),
		now:        time.Now,
		state:      StateUnavailable,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type returns the sensor variant.
func (s *Sensor) Type() Type {
	return s.sensorType
}

// Snapshot returns the current exposed state.
func (s *Sensor) Snapshot() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Type:        s.sensorType,
		Name:        s.sensorType.DisplayName(),
		State:       s.state.String(),
		Available:   s.state == StateAvailable,
		Count:       s.count,
		Unit:        s.sensorType.Unit(),
		Icon:        s.sensorType.Icon(),
		Attributes:  s.attributes,
		RefreshedAt: s.refreshedAt,
	}
}

// Refresh runs one full cycle: fetch from the backend, window and enrich as
// the variant requires, rebuild the attribute payload, and flush the cache.
// A backend transport failure marks the sensor unavailable, clears its data,
// and skips cache I/O entirely; per-entry faults only shrink the dataset.
func (s *Sensor) Refresh(ctx context.Context) {
	cycleID := uuid.NewString()[:8]
	logger := s.logger.With(logging.String(logging.FieldCycleID, cycleID))

	s.setState(StateFetching)
	started := s.now()

	var err error
	var count int
	var attributes Attributes
	if s.sensorType.IsHistory() {
		count, attributes, err = s.refreshHistory(ctx, logger)
	} else {
		count, attributes, err = s.refreshUpcoming(ctx, logger)
	}
	if err != nil {
		logger.Warn("backend not available",
			logging.Error(err),
			logging.String(logging.FieldEventType, "primary_fetch_failed"),
			logging.String(logging.FieldImpact, "sensor marked unavailable until next cycle"))
		s.mu.Lock()
		s.state = StateUnavailable
		s.count = 0
		s.attributes = nil
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.state = StateAvailable
	s.count = count
	s.attributes = attributes
	s.refreshedAt = s.now()
	s.mu.Unlock()

	logger.Info("refresh complete",
		logging.Int("count", count),
		logging.Duration("elapsed", s.now().Sub(started)))
}

func (s *Sensor) refreshHistory(ctx context.Context, logger *slog.Logger) (int, Attributes, error) {
	entries, err := s.backend.GetHistory(ctx)
	if err != nil {
		return 0, nil, err
	}

	now := s.now()
	items := filterWindow(entries, s.days, now, logger)

	if s.sensorType == TypeHistory {
		return len(items), buildHistoryAttributes(items, now), nil
	}

	cacheSnapshot := s.loadCache(logger)
	e := &enricher{catalog: s.catalog, logger: logger}
	items = e.enrichHistory(ctx, items, cacheSnapshot)
	s.saveCache(cacheSnapshot, logger)

	attributes, err := buildDetailedHistoryAttributes(items, now)
	if err != nil {
		return 0, nil, err
	}
	return len(items), attributes, nil
}

func (s *Sensor) refreshUpcoming(ctx context.Context, logger *slog.Logger) (int, Attributes, error) {
	entries, err := s.backend.GetUpcoming(ctx)
	if err != nil {
		return 0, nil, err
	}

	items := make([]UpcomingItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, UpcomingItem{UpcomingEntry: entry})
	}

	if s.sensorType == TypeUpcoming {
		return len(items), buildUpcomingAttributes(items), nil
	}

	cacheSnapshot := s.loadCache(logger)
	e := &enricher{catalog: s.catalog, logger: logger}
	items = e.enrichUpcoming(ctx, items, cacheSnapshot)
	s.saveCache(cacheSnapshot, logger)

	attributes, kept, err := buildDetailedUpcomingAttributes(items)
	if err != nil {
		return 0, nil, err
	}
	return len(kept), attributes, nil
}

func (s *Sensor) loadCache(logger *slog.Logger) *metadatacache.Snapshot {
	snapshot, err := s.cache.Load()
	if err != nil {
		logger.Warn("metadata cache unreadable; starting cycle with empty cache",
			logging.Error(err),
			logging.String(logging.FieldEventType, "cache_load_failed"),
			logging.String(logging.FieldImpact, "previously cached metadata will be re-fetched"))
	}
	return snapshot
}

func (s *Sensor) saveCache(snapshot *metadatacache.Snapshot, logger *slog.Logger) {
	if err := s.cache.Save(snapshot); err != nil {
		logger.Warn("metadata cache not persisted",
			logging.Error(err),
			logging.String(logging.FieldEventType, "cache_save_failed"),
			logging.String(logging.FieldImpact, "this cycle's lookups will repeat next cycle"))
	}
}

func (s *Sensor) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
