package preflight

import (
	"context"

	"mylarsensor/internal/config"
	"mylarsensor/internal/sensor"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The catalog check only runs when a detailed sensor is monitored, since
// the plain variants never consult it.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckMylar(ctx, cfg.Mylar),
		CheckCachePath("Metadata cache", cfg.Cache.Path),
	}

	if needsCatalog(cfg) {
		results = append(results, CheckComicVine(ctx, cfg.ComicVine))
	}

	return results
}

func needsCatalog(cfg *config.Config) bool {
	for _, name := range cfg.Sensors.Monitored {
		if t, err := sensor.ParseType(name); err == nil && t.IsDetailed() {
			return true
		}
	}
	return false
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
