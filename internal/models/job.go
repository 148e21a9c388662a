package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmailVerification  = "verification"
	EmailWeeklyDigest  = "weekly-digest"
	EmailStudyReminder = "study-reminder"
)

// EmailJob is queued on queue:emails and delivered by the worker pool.
type EmailJob struct {
	ID         uuid.UUID    `json:"id"`
	Kind       string       `json:"kind"` // "verification" | "weekly-digest" | "study-reminder"
	To         string       `json:"to"`
	Name       string       `json:"name"`
	Token      string       `json:"token,omitempty"`
	Digest     *DigestStats `json:"digest,omitempty"`
	RetryCount int          `json:"retry_count"`
	CreatedAt  time.Time    `json:"created_at"`
}

type DigestStats struct {
	WeekStart      time.Time     `json:"week_start"`
	TotalMinutes   int           `json:"total_minutes"`
	SessionCount   int           `json:"session_count"`
	AverageMinutes int           `json:"average_minutes"`
	Subjects       []DigestEntry `json:"subjects"`
}

type DigestEntry struct {
	Name       string  `json:"name"`
	Minutes    int     `json:"minutes"`
	Percentage float64 `json:"percentage"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	WSTimerTick      = "timer_tick"
	WSSessionStarted = "session_started"
	WSSessionEnded   = "session_ended"
	WSTimerIdle      = "timer_idle"
)

type TimerTick struct {
	SessionID      uuid.UUID `json:"session_id"`
	SubjectID      uuid.UUID `json:"subject_id"`
	StartTime      time.Time `json:"start_time"`
	ElapsedMinutes int       `json:"elapsed_minutes"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Display        string    `json:"display"`
}

type SessionEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	SubjectID uuid.UUID `json:"subject_id"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
