package models

import (
	"time"

	"github.com/google/uuid"
)

type PracticeQuestion struct {
	ID            uuid.UUID `json:"id"`
	TopicID       uuid.UUID `json:"topic_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer int       `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	Difficulty    string    `json:"difficulty"` // "easy" | "medium" | "hard"
	CreatedAt     time.Time `json:"created_at"`
}

// PublicQuestion is what a learner sees before the answer is revealed.
type PublicQuestion struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	Options    []string  `json:"options"`
	Difficulty string    `json:"difficulty"`
}

func (q PracticeQuestion) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Question:   q.Question,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
}
