// Package timeutil normalizes calendar-day queries. Clients ask for events
// "on 2024-03-15" in their own timezone; the database stores UTC, so the
// day has to be converted into a UTC half-open window before it can appear
// in a WHERE clause.
package timeutil

import (
	"fmt"
	"time"
)

// DayLayout is the wire format for calendar-day parameters.
const DayLayout = "2006-01-02"

// DayRangeUTC converts a calendar day in the named IANA zone into the UTC
// half-open window [start, end) covering that local day. An empty zone
// means UTC. The window is computed with AddDate rather than adding 24h so
// DST-transition days keep their real length.
func DayRangeUTC(day, zone string) (time.Time, time.Time, error) {
	loc := time.UTC
	if zone != "" {
		var err error
		loc, err = time.LoadLocation(zone)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("unknown timezone %q: %w", zone, err)
		}
	}
	d, err := time.ParseInLocation(DayLayout, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	start := d
	end := d.AddDate(0, 0, 1)
	return start.UTC(), end.UTC(), nil
}
