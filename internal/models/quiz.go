package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is the stored outcome of a completed practice attempt.
type QuizResult struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	TopicID     uuid.UUID `json:"topic_id"`
	AttemptID   uuid.UUID `json:"attempt_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percent     int       `json:"percent"`
	CompletedAt time.Time `json:"completed_at"`
}

type SelectOptionRequest struct {
	Option *int `json:"option" validate:"required,min=0"`
}
