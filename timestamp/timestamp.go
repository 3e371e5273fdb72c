// Package timestamp parses the dates github's v2 API hands out.
//
// Two layouts are in use: "2006/01/02 15:04:05" for most records and
// "2006-01-02T15:04:05" for commit dates. Either may end in a -0700 or -0800
// marker. The marker is not trusted as a fixed offset: -0700 means the wall
// time was written in US Mountain time, anything else means US Pacific, and
// daylight saving is applied by the zone database.
package timestamp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // github's zones must resolve on hosts without a zoneinfo db
)

const (
	// GithubLayout is used by user, repository and issue records
	GithubLayout = "2006/01/02 15:04:05"
	// CommitLayout is used by commit and changeset records
	CommitLayout = "2006-01-02T15:04:05"

	// MountainMarker is the suffix of timestamps written in US Mountain time
	MountainMarker = "-0700"
	// PacificMarker is the suffix of timestamps written in US Pacific time
	PacificMarker = "-0800"
)

var (
	mountain = mustLoad("America/Denver")
	pacific  = mustLoad("America/Los_Angeles")

	layouts = []string{GithubLayout, CommitLayout}
)

// FormatError is returned when a string matches none of the known layouts
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("timestamp %q matches neither %q nor %q", e.Value, GithubLayout, CommitLayout)
}

// Parse converts one of github's timestamps to a UTC instant
func Parse(s string) (time.Time, error) {
	value := strings.TrimSpace(s)

	loc := pacific
	switch {
	case strings.HasSuffix(value, MountainMarker):
		loc = mountain
		value = strings.TrimSuffix(value, MountainMarker)
	case strings.HasSuffix(value, PacificMarker):
		value = strings.TrimSuffix(value, PacificMarker)
	}
	value = strings.TrimSpace(value)

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &FormatError{Value: s}
}

// MustParse is Parse for constants; it panics on malformed input
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Time is a time.Time that decodes from any of github's timestamp formats
type Time struct {
	time.Time
}

// UnmarshalJSON accepts github's layouts, RFC 3339 and null
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	t.Time = parsed

	return nil
}

// MarshalJSON writes RFC 3339 in UTC
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
