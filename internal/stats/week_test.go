package stats_test

import (
	"testing"
	"time"

	"studytrack-backend/internal/stats"
)

func TestWeekOf(t *testing.T) {
	// Wednesday
	wed := time.Date(2026, 2, 18, 9, 30, 0, 0, time.UTC)
	// Sunday
	sun := time.Date(2026, 2, 22, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		start     time.Weekday
		wantStart time.Time
	}{
		{"monday start midweek", wed, time.Monday, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)},
		{"sunday start midweek", wed, time.Sunday, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"monday start on sunday", sun, time.Monday, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)},
		{"sunday start on sunday", sun, time.Sunday, time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := stats.WeekOf(tc.now, stats.WeekConfig{Start: tc.start, Location: time.UTC})
			if !w.Start.Equal(tc.wantStart) {
				t.Errorf("expected start %s, got %s", tc.wantStart, w.Start)
			}
			if !w.End.Equal(tc.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("expected end one week after start, got %s", w.End)
			}
			if !w.Contains(tc.now) {
				t.Errorf("week should contain now")
			}
		})
	}
}

func TestWeekOf_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// Sunday 22:00 UTC is already Monday 03:00 in UTC+5.
	now := time.Date(2026, 2, 22, 22, 0, 0, 0, time.UTC)

	w := stats.WeekOf(now, stats.WeekConfig{Start: time.Monday, Location: loc})
	want := time.Date(2026, 2, 23, 0, 0, 0, 0, loc)
	if !w.Start.Equal(want) {
		t.Fatalf("expected %s, got %s", want, w.Start)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Sunday", time.Sunday, false},
		{" sat ", time.Saturday, false},
		{"funday", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := stats.ParseWeekday(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("%q: expected %s, got %s (err %v)", tc.in, tc.want, got, err)
		}
	}
}

func TestWeek_EndIsExclusive(t *testing.T) {
	cfg := stats.WeekConfig{Start: time.Monday, Location: time.UTC}
	w := stats.WeekOf(time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC), cfg)

	if !w.Contains(w.Start) {
		t.Error("week start belongs to the week")
	}
	if w.Contains(w.End) {
		t.Error("next Monday 00:00 belongs to the next week")
	}
	if !w.Contains(w.End.Add(-time.Nanosecond)) {
		t.Error("the last instant before End belongs to the week")
	}
}
