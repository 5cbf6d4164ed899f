package sensor

import (
	"encoding/json"
	"fmt"
	"time"

	"mylarsensor/internal/comicvine"
	"mylarsensor/internal/mylar"
	"mylarsensor/internal/timesince"
)

// Attributes is the variant-specific payload exposed alongside the count.
type Attributes map[string]string

// placeholderPoster is shown when enrichment metadata carries no artwork.
const placeholderPoster = "https://via.placeholder.com/121x160?text=Image+not+found"

const (
	comicNameMaxLen = 30
	isoLayout       = "2006-01-02T15:04:05"
	longDateLayout  = "Monday, January 02, 2006"
)

func statusCode(status string) string {
	switch status {
	case "Snatched":
		return "SN"
	case "Post-Processed":
		return "PP"
	default:
		return "D"
	}
}

func truncateName(name string) string {
	if len(name) > comicNameMaxLen {
		return name[:comicNameMaxLen]
	}
	return name
}

// buildHistoryAttributes maps "<comic> #<issue>" to accumulated
// "<relative-time>|<status>" lines. Recurring keys gather lines rather than
// overwriting.
func buildHistoryAttributes(items []HistoryItem, now time.Time) Attributes {
	attributes := make(Attributes, len(items))
	for _, item := range items {
		comic := fmt.Sprintf("%s #%s", truncateName(item.ComicName), item.IssueNumber)
		line := fmt.Sprintf(" %s|%s", timesince.Format(item.Added, now), statusCode(item.Status))
		if existing, ok := attributes[comic]; ok {
			attributes[comic] = existing + "\n" + line
		} else {
			attributes[comic] = line
		}
	}
	return attributes
}

// buildUpcomingAttributes maps "<comic> #<issue>" to the raw issue date.
func buildUpcomingAttributes(items []UpcomingItem) Attributes {
	attributes := make(Attributes, len(items))
	for _, item := range items {
		attributes[fmt.Sprintf("%s #%s", item.ComicName, item.IssueNumber)] = item.IssueDate
	}
	return attributes
}

// card is one display entry in the detailed variants' serialized sequence.
type card map[string]any

// templateCard describes field bindings for the display widget; it leads
// every detailed card sequence. line4 differs between the two variants.
func templateCard(line4 string) card {
	return card{
		"title_default": "$title",
		"line1_default": "$episode",
		"line2_default": "$release",
		"line3_default": "$empty",
		"line4_default": line4,
		"icon":          "mdi:arrow-down-bold",
	}
}

func poster(metadata comicvine.Record) string {
	if metadata != nil {
		if url, ok := metadata.ThumbURL(); ok {
			return url
		}
	}
	return placeholderPoster
}

// buildDetailedHistoryAttributes serializes history display cards under the
// "data" attribute.
func buildDetailedHistoryAttributes(items []HistoryItem, now time.Time) (Attributes, error) {
	cards := make([]card, 0, len(items)+1)
	cards = append(cards, templateCard("$genres"))
	for _, item := range items {
		episode := ""
		if item.Metadata != nil {
			episode = item.Metadata.Name()
		}
		cards = append(cards, card{
			"poster":  poster(item.Metadata),
			"airdate": item.Added.Format(isoLayout),
			"title":   fmt.Sprintf("%s #%s", item.ComicName, item.IssueNumber),
			"genres":  item.Status,
			"episode": episode,
			"release": timesince.Format(item.Added, now),
		})
	}
	return serializeCards(cards)
}

// buildDetailedUpcomingAttributes serializes upcoming display cards under
// the "data" attribute. The release label is the full written-out date. An
// item whose issue date does not parse loses only its own card; the kept
// items are returned so the count matches the rendered set.
func buildDetailedUpcomingAttributes(items []UpcomingItem) (Attributes, []UpcomingItem, error) {
	cards := make([]card, 0, len(items)+1)
	cards = append(cards, templateCard(""))
	kept := make([]UpcomingItem, 0, len(items))
	for _, item := range items {
		issueDate, err := time.Parse(mylar.IssueDateLayout, item.IssueDate)
		if err != nil {
			continue
		}
		episode := ""
		if item.Metadata != nil {
			episode = item.Metadata.Name()
		}
		cards = append(cards, card{
			"poster":  poster(item.Metadata),
			"airdate": issueDate.Format(isoLayout),
			"title":   fmt.Sprintf("%s #%s", item.ComicName, item.IssueNumber),
			"episode": episode,
			"release": issueDate.Format(longDateLayout),
		})
		kept = append(kept, item)
	}
	attributes, err := serializeCards(cards)
	return attributes, kept, err
}

func serializeCards(cards []card) (Attributes, error) {
	data, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("serialize display cards: %w", err)
	}
	return Attributes{"data": string(data)}, nil
}
