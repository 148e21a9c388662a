package stats

import (
	"fmt"
	"strings"
	"time"
)

// WeekConfig pins the calendar used for weekly totals. The zero value is a
// Sunday-start week in UTC; use DefaultWeekConfig for the Monday default.
type WeekConfig struct {
	Start    time.Weekday
	Location *time.Location
}

func DefaultWeekConfig() WeekConfig {
	return WeekConfig{Start: time.Monday, Location: time.UTC}
}

func (c WeekConfig) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Week is a half-open interval [Start, End).
type Week struct {
	Start time.Time
	End   time.Time
}

func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WeekOf returns the calendar week containing now.
func WeekOf(now time.Time, cfg WeekConfig) Week {
	local := now.In(cfg.location())
	offset := (int(local.Weekday()) - int(cfg.Start) + 7) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, local.Location())
	return Week{Start: start, End: start.AddDate(0, 0, 7)}
}

// ParseWeekday accepts full or three-letter English day names, any case.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
