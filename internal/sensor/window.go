package sensor

import (
	"log/slog"
	"time"

	"mylarsensor/internal/logging"
	"mylarsensor/internal/mylar"
)

// filterWindow keeps history entries added within the rolling day window
// ending at now. Entries with unparseable timestamps are logged and dropped;
// they never abort the cycle.
func filterWindow(entries []mylar.HistoryEntry, days int, now time.Time, logger *slog.Logger) []HistoryItem {
	if logger == nil {
		logger = logging.NewNop()
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, entry := range entries {
		added, err := time.Parse(mylar.DateAddedLayout, entry.DateAdded)
		if err != nil {
			logger.Warn("dropping history entry with bad timestamp",
				logging.Error(err),
				logging.String("comic", entry.ComicName),
				logging.String("issue", entry.IssueNumber),
				logging.String("date_added", entry.DateAdded))
			continue
		}
		// Whole days; future-dated entries have non-positive age and stay in.
		age := int(now.Sub(added).Hours() / 24)
		if age <= days {
			items = append(items, HistoryItem{HistoryEntry: entry, Added: added})
		}
	}
	return items
}
