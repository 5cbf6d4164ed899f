// Package timesince renders compact relative-time labels such as "2w3d" or
// "5h" with at most two units of precision.
package timesince

import (
	"fmt"
	"time"
)

type chunk struct {
	seconds int64
	format  string
}

// Bucket sizes use calendar approximations (365-day year, 30-day month);
// leap days are corrected for separately before bucketing.
var chunks = []chunk{
	{60 * 60 * 24 * 365, "%dy"},
	{60 * 60 * 24 * 30, "%dmo"},
	{60 * 60 * 24 * 7, "%dw"},
	{60 * 60 * 24, "%dd"},
	{60 * 60, "%dh"},
	{60, "%dmin"},
}

// Format returns the elapsed time between d and now as a compact label with
// a primary unit and, when nonzero, one next-smaller secondary unit.
// Timestamps in the future (or less than a minute in the past) yield the
// literal "0 minutes".
func Format(d, now time.Time) string {
	delta := now.Sub(d)

	// Credit leap days between the two endpoint years so year-spanning
	// durations land in the expected bucket.
	leap := leapdays(d.Year(), now.Year())
	if leap != 0 {
		if isLeap(d.Year()) {
			leap--
		} else if isLeap(now.Year()) {
			leap++
		}
	}
	delta -= time.Duration(leap) * 24 * time.Hour

	// Whole seconds only; sub-second precision is noise at these scales.
	since := int64(delta / time.Second)
	if since <= 0 {
		return "0 minutes"
	}

	var i int
	var count int64
	for i = range chunks {
		if count = since / chunks[i].seconds; count != 0 {
			break
		}
	}

	result := fmt.Sprintf(chunks[i].format, count)
	if i+1 < len(chunks) {
		next := chunks[i+1]
		if count2 := (since - chunks[i].seconds*count) / next.seconds; count2 != 0 {
			result += fmt.Sprintf(next.format, count2)
		}
	}
	return result
}

// Since is shorthand for Format against the current wall clock.
func Since(d time.Time) string {
	return Format(d, time.Now())
}

// leapdays counts leap years in the half-open range [y1, y2).
func leapdays(y1, y2 int) int {
	y1--
	y2--
	return (y2/4 - y1/4) - (y2/100 - y1/100) + (y2/400 - y1/400)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
