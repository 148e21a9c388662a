package models

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is one timed interval tied to a subject. EndTime and
// DurationMinutes stay nil while the session is in progress and are set once
// when it ends.
type StudySession struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	SubjectID       uuid.UUID   `json:"subject_id"`
	TopicID         *uuid.UUID  `json:"topic_id,omitempty"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         *time.Time  `json:"end_time,omitempty"`
	DurationMinutes *int        `json:"duration_minutes,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Subject         *SubjectRef `json:"subject,omitempty"`
}

func (s *StudySession) Active() bool {
	return s.EndTime == nil
}

type StartSessionRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	TopicID   string `json:"topic_id" validate:"omitempty,uuid"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type EndSessionRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// ActiveSessionView is a running session with its elapsed time at read time.
type ActiveSessionView struct {
	Session        *StudySession `json:"session"`
	ElapsedMinutes int           `json:"elapsed_minutes"`
	Display        string        `json:"display"`
}
