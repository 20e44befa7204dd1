package chatlog

import (
	"strings"
	"time"
)

// timestampLayouts is the single canonical ordered format table.
// With-seconds layouts come before without-seconds so precision is
// never silently truncated by a looser match.
var timestampLayouts = []string{
	"1/2/06, 3:04:05 PM",
	"1/2/2006, 3:04:05 PM",
	"2/1/06, 15:04:05",
	"2/1/2006, 15:04:05",
	"1/2/06, 3:04 PM",
	"1/2/2006, 3:04 PM",
	"1/2/06, 15:04",
	"1/2/2006, 15:04",
}

// ParseTimestamp parses an export timestamp against the layout table,
// returning the first successful parse. No timezone is assumed; the
// result is naive local time. A false return means "drop the candidate
// message", not a fatal error.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
