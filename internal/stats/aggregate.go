// Package stats turns study session lists into the weekly figures shown on
// the dashboard and time tracker. Everything here is pure.
package stats

import (
	"math"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type SubjectShare struct {
	SubjectID  uuid.UUID `json:"subject_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	Minutes    int       `json:"minutes"`
	Percentage float64   `json:"percentage"`
}

type WeeklySummary struct {
	WeekStart    time.Time      `json:"week_start"`
	WeekEnd      time.Time      `json:"week_end"`
	TotalMinutes int            `json:"total_minutes"`
	Breakdown    []SubjectShare `json:"breakdown"`
}

// qualifies reports whether s counts toward week w. Only ended sessions count,
// and only the start time is tested against the boundary.
func qualifies(s *models.StudySession, w Week) bool {
	return s.EndTime != nil && w.Contains(s.StartTime)
}

func minutesOf(s *models.StudySession) int {
	if s.DurationMinutes == nil {
		return 0
	}
	return *s.DurationMinutes
}

// WeeklyMinutes is the total of Weekly without the breakdown.
func WeeklyMinutes(now time.Time, sessions []*models.StudySession, cfg WeekConfig) int {
	w := WeekOf(now, cfg)
	total := 0
	for _, s := range sessions {
		if qualifies(s, w) {
			total += minutesOf(s)
		}
	}
	return total
}

// Weekly computes the total and per-subject breakdown for the week containing
// now. Breakdown entries follow the order of subjects; sessions for subjects
// not in that list are appended in first-seen order.
func Weekly(now time.Time, sessions []*models.StudySession, subjects []*models.Subject, cfg WeekConfig) WeeklySummary {
	w := WeekOf(now, cfg)
	summary := WeeklySummary{
		WeekStart: w.Start,
		WeekEnd:   w.End,
		Breakdown: []SubjectShare{},
	}

	perSubject := make(map[uuid.UUID]int)
	var unknown []uuid.UUID
	known := make(map[uuid.UUID]bool, len(subjects))
	for _, sub := range subjects {
		known[sub.ID] = true
	}

	for _, s := range sessions {
		if !qualifies(s, w) {
			continue
		}
		m := minutesOf(s)
		summary.TotalMinutes += m
		if _, seen := perSubject[s.SubjectID]; !seen && !known[s.SubjectID] {
			unknown = append(unknown, s.SubjectID)
		}
		perSubject[s.SubjectID] += m
	}

	share := func(id uuid.UUID, name, color string) {
		m, ok := perSubject[id]
		if !ok || m <= 0 {
			return
		}
		summary.Breakdown = append(summary.Breakdown, SubjectShare{
			SubjectID:  id,
			Name:       name,
			Color:      color,
			Minutes:    m,
			Percentage: Percentage(m, summary.TotalMinutes),
		})
	}

	for _, sub := range subjects {
		share(sub.ID, sub.Name, sub.Color)
	}
	for _, id := range unknown {
		share(id, "", "")
	}

	return summary
}

// Percentage returns part/total*100, or 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func CompletedCount(sessions []*models.StudySession) int {
	n := 0
	for _, s := range sessions {
		if s.EndTime != nil {
			n++
		}
	}
	return n
}

// AverageSessionLength is the rounded mean duration of completed sessions, or
// 0 when none are completed.
func AverageSessionLength(sessions []*models.StudySession) int {
	total, count := 0, 0
	for _, s := range sessions {
		if s.EndTime == nil {
			continue
		}
		total += minutesOf(s)
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

// Completed returns the ended sessions in their original order, capped at limit
// when limit > 0.
func Completed(sessions []*models.StudySession, limit int) []*models.StudySession {
	out := make([]*models.StudySession, 0)
	for _, s := range sessions {
		if s.EndTime == nil {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// ActiveSession returns the first session without an end time.
func ActiveSession(sessions []*models.StudySession) *models.StudySession {
	for _, s := range sessions {
		if s.EndTime == nil {
			return s
		}
	}
	return nil
}
