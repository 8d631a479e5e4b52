package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MarkerInfix separates a content name from its deletion date.
	MarkerInfix = "_delete_on_"
	// DateLayout is the YYYY-MM-DD suffix of a marker.
	DateLayout = "2006-01-02"
)

// Marker is a decoded "<name>_delete_on_<date>" entry.
type Marker struct {
	Entry string
	Name  string
	Date  time.Time
}

func IsMarker(entry string) bool {
	return strings.Contains(entry, MarkerInfix)
}

func MarkerName(name string, date time.Time) string {
	return name + MarkerInfix + date.UTC().Format(DateLayout)
}

// ParseMarker splits entry on the last infix and parses the date as a UTC
// calendar day.
func ParseMarker(entry string) (Marker, error) {
	idx := strings.LastIndex(entry, MarkerInfix)
	if idx < 0 {
		return Marker{}, fmt.Errorf("not a marker: %s", entry)
	}

	date, err := time.ParseInLocation(DateLayout, entry[idx+len(MarkerInfix):], time.UTC)
	if err != nil {
		return Marker{}, fmt.Errorf("invalid marker date in %s: %w", entry, err)
	}

	return Marker{
		Entry: entry,
		Name:  entry[:idx],
		Date:  date,
	}, nil
}

// ExpiredAt reports whether the marker date is strictly before the UTC
// calendar day of ref.
func (m Marker) ExpiredAt(ref time.Time) bool {
	return m.Date.Before(Day(ref))
}

// Day truncates t to midnight UTC of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
