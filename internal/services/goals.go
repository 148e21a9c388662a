package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type goalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type GoalService struct {
	goals goalStore
}

func NewGoalService(goals goalStore) *GoalService {
	return &GoalService{goals: goals}
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	goals, err := s.goals.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, transport("load goals", err)
	}
	return goals, nil
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, req models.GoalRequest) (*models.Goal, error) {
	goal := &models.Goal{UserID: userID}
	if err := applyGoalRequest(goal, req); err != nil {
		return nil, err
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, transport("create goal", err)
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID uuid.UUID, req models.GoalRequest) (*models.Goal, error) {
	goal, err := s.goals.GetByID(ctx, goalID, userID)
	if err != nil {
		return nil, notFoundOr("update goal", "Goal not found", err)
	}
	if err := applyGoalRequest(goal, req); err != nil {
		return nil, err
	}
	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, notFoundOr("update goal", "Goal not found", err)
	}
	return goal, nil
}

func (s *GoalService) UpdateStatus(ctx context.Context, userID, goalID uuid.UUID, req models.GoalStatusRequest) error {
	if err := ValidateStruct(req); err != nil {
		return err
	}
	return notFoundOr("update goal", "Goal not found", s.goals.UpdateStatus(ctx, goalID, userID, req.Status))
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	return notFoundOr("delete goal", "Goal not found", s.goals.Delete(ctx, goalID, userID))
}

func applyGoalRequest(goal *models.Goal, req models.GoalRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.TargetDate = strings.TrimSpace(req.TargetDate)
	if err := ValidateStruct(req); err != nil {
		return err
	}

	goal.Title = req.Title
	goal.Description = req.Description
	goal.TargetDate = nil
	if req.TargetDate != "" {
		// Already checked by the datetime tag.
		d, _ := time.Parse("2006-01-02", req.TargetDate)
		goal.TargetDate = &d
	}
	if req.Status != "" {
		goal.Status = req.Status
	} else if goal.Status == "" {
		goal.Status = models.GoalPending
	}
	return nil
}
