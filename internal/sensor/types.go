package sensor

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/mylar"
)

// Type selects one of the four sensor variants.
type Type string

const (
	TypeHistory          Type = "history"
	TypeDetailedHistory  Type = "detailed_history"
	TypeUpcoming         Type = "upcoming"
	TypeDetailedUpcoming Type = "detailed_upcoming"
)

// Types lists all variants in presentation order.
func Types() []Type {
	return []Type{TypeHistory, TypeDetailedHistory, TypeUpcoming, TypeDetailedUpcoming}
}

// ParseType validates a configured sensor type name.
func ParseType(name string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(name))); t {
	case TypeHistory, TypeDetailedHistory, TypeUpcoming, TypeDetailedUpcoming:
		return t, nil
	default:
		return "", fmt.Errorf("unknown sensor type %q", name)
	}
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the human-readable sensor name, e.g.
// "Mylar Detailed History".
func (t Type) DisplayName() string {
	return "Mylar " + titleCaser.String(strings.ReplaceAll(string(t), "_", " "))
}

// IsHistory reports whether the variant reads the history feed.
func (t Type) IsHistory() bool {
	return t == TypeHistory || t == TypeDetailedHistory
}

// IsDetailed reports whether the variant carries enriched display cards.
func (t Type) IsDetailed() bool {
	return t == TypeDetailedHistory || t == TypeDetailedUpcoming
}

// Icon returns the display icon identifier for the variant.
func (t Type) Icon() string {
	if t.IsHistory() {
		return "mdi:history"
	}
	return "mdi:book-open-variant"
}

// Unit returns the unit label for the variant's count state.
func (t Type) Unit() string {
	if t.IsHistory() {
		return "Items"
	}
	return "Issues"
}

// HistoryItem is a windowed history entry, optionally enriched.
type HistoryItem struct {
	mylar.HistoryEntry

	// Added is the parsed DateAdded timestamp.
	Added time.Time
	// Metadata is nil until enrichment resolves; it may be a failure
	// placeholder when the catalog had no usable answer.
	Metadata comicvine.Record
}

// UpcomingItem is an upcoming entry, optionally enriched.
type UpcomingItem struct {
	mylar.UpcomingEntry

	Metadata comicvine.Record
}

// State describes sensor availability within the refresh cycle.
type State int

const (
	StateUnavailable State = iota
	StateFetching
	StateAvailable
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateAvailable:
		return "available"
	default:
		return "unavailable"
	}
}
