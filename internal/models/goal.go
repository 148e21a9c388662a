package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GoalPending    = "pending"
	GoalInProgress = "in_progress"
	GoalCompleted  = "completed"
)

type Goal struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"target_date"`
	Status      string     `json:"status"` // "pending" | "in_progress" | "completed"
	CreatedAt   time.Time  `json:"created_at"`
}

type GoalRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	TargetDate  string `json:"target_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type GoalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
