package stats

import (
	"fmt"
	"time"

	"studytrack-backend/internal/models"
)

// FormatDuration renders minutes as HH:MM.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func SplitHours(minutes int) (hours, rest int) {
	return minutes / 60, minutes % 60
}

// HoursMinutes renders minutes the way the dashboard card does, e.g. "2h 5m".
func HoursMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := SplitHours(minutes)
	return fmt.Sprintf("%dh %dm", h, m)
}

// ElapsedMinutes counts whole minutes between start and now, truncated.
func ElapsedMinutes(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

func GoalCounts(goals []*models.Goal) (completed, active int) {
	for _, g := range goals {
		if g.Status == models.GoalCompleted {
			completed++
		} else {
			active++
		}
	}
	return completed, active
}
