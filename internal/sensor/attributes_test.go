package sensor

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mylarsensor/internal/mylar"
)

func TestTruncateName(t *testing.T) {
	long := strings.Repeat("x", 45)
	if got := truncateName(long); len(got) != comicNameMaxLen {
		t.Errorf("len = %d, want %d", len(got), comicNameMaxLen)
	}
	if got := truncateName("Saga"); got != "Saga" {
		t.Errorf("short name changed: %q", got)
	}
}

func TestBuildHistoryAttributesTruncatesKeyNotDetail(t *testing.T) {
	name := strings.Repeat("a", 40)
	items := []HistoryItem{{
		HistoryEntry: mylar.HistoryEntry{ComicName: name, IssueNumber: "3", Status: "Snatched"},
		Added:        testNow.Add(-time.Hour),
	}}

	attributes := buildHistoryAttributes(items, testNow)

	key := strings.Repeat("a", comicNameMaxLen) + " #3"
	if _, ok := attributes[key]; !ok {
		t.Fatalf("truncated key missing, got %v", attributes)
	}
}

func TestBuildDetailedHistoryAttributesKeepsFullTitle(t *testing.T) {
	name := strings.Repeat("b", 40)
	items := []HistoryItem{{
		HistoryEntry: mylar.HistoryEntry{ComicName: name, IssueNumber: "1", Status: "Post-Processed"},
		Added:        testNow.Add(-2 * time.Hour),
	}}

	attributes, err := buildDetailedHistoryAttributes(items, testNow)
	if err != nil {
		t.Fatal(err)
	}
	var cards []map[string]any
	if err := json.Unmarshal([]byte(attributes["data"]), &cards); err != nil {
		t.Fatal(err)
	}
	if got := cards[1]["title"]; got != name+" #1" {
		t.Errorf("title = %v, want untruncated name", got)
	}
	if got := cards[1]["genres"]; got != "Post-Processed" {
		t.Errorf("genres = %v, want raw status", got)
	}
	if got := cards[1]["release"]; got != "2h" {
		t.Errorf("release = %v, want relative age", got)
	}
}

func TestTemplateCardLeadsSequence(t *testing.T) {
	attributes, err := buildDetailedHistoryAttributes(nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	var cards []map[string]any
	if err := json.Unmarshal([]byte(attributes["data"]), &cards); err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 {
		t.Fatalf("empty set must still carry the template card, got %d cards", len(cards))
	}
	if got := cards[0]["line4_default"]; got != "$genres" {
		t.Errorf("line4_default = %v", got)
	}
	if got := cards[0]["icon"]; got != "mdi:arrow-down-bold" {
		t.Errorf("icon = %v", got)
	}
}
