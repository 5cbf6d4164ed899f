package sensor

import (
	"context"
	"log/slog"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/logging"
	"mylarsensor/internal/metadatacache"
)

// CatalogLookup is the catalog operation the enrichment pipeline depends on.
type CatalogLookup interface {
	Lookup(ctx context.Context, id comicvine.Identity) (comicvine.Record, error)
}

// enricher resolves an identity per entry, consults the cache, and falls
// back to the catalog on a miss. Results (including failure placeholders)
// are cached; transport failures are not, so they retry next cycle.
type enricher struct {
	catalog CatalogLookup
	logger  *slog.Logger
}

// lookup returns the enrichment record for the identity fields, or nil when
// the catalog was unreachable this cycle. A nil record with nil error means
// "no enrichment available"; ErrMissingIdentity propagates so the caller can
// skip the entry.
func (e *enricher) lookup(ctx context.Context, cache *metadatacache.Snapshot, issueID, volumeID, issueNumber string) (comicvine.Record, error) {
	identity, err := comicvine.ResolveIdentity(issueID, volumeID, issueNumber)
	if err != nil {
		return nil, err
	}

	key := identity.Key()
	if record, ok := cache.Get(key); ok {
		return record, nil
	}

	record, err := e.catalog.Lookup(ctx, identity)
	if err != nil {
		e.logger.Warn("catalog not available; entry left unenriched this cycle",
			logging.Error(err),
			logging.String("identity", key))
		return nil, nil
	}

	cache.Put(key, record)
	return record, nil
}

// enrichHistory attaches metadata to each windowed history item. Items whose
// identity cannot be resolved are logged and removed from the set.
func (e *enricher) enrichHistory(ctx context.Context, items []HistoryItem, cache *metadatacache.Snapshot) []HistoryItem {
	kept := items[:0]
	for _, item := range items {
		record, err := e.lookup(ctx, cache, item.IssueID, item.ComicID, item.IssueNumber)
		if err != nil {
			e.logger.Warn("skipping history entry without usable identity",
				logging.Error(err),
				logging.String("comic", item.ComicName),
				logging.String("issue", item.IssueNumber))
			continue
		}
		item.Metadata = record
		kept = append(kept, item)
	}
	return kept
}

// enrichUpcoming attaches metadata to each upcoming item, dropping entries
// without a usable identity.
func (e *enricher) enrichUpcoming(ctx context.Context, items []UpcomingItem, cache *metadatacache.Snapshot) []UpcomingItem {
	kept := items[:0]
	for _, item := range items {
		record, err := e.lookup(ctx, cache, item.IssueID, item.ComicID, item.IssueNumber)
		if err != nil {
			e.logger.Warn("skipping upcoming entry without usable identity",
				logging.Error(err),
				logging.String("comic", item.ComicName),
				logging.String("issue", item.IssueNumber))
			continue
		}
		item.Metadata = record
		kept = append(kept, item)
	}
	return kept
}
