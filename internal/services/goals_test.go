package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studytrack-backend/internal/models"
)

type memGoals struct {
	goals []*models.Goal
}

func (m *memGoals) Create(ctx context.Context, g *models.Goal) error {
	g.ID = uuid.New()
	m.goals = append([]*models.Goal{g}, m.goals...)
	return nil
}

func (m *memGoals) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	for _, g := range m.goals {
		if g.ID == id && g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memGoals) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Goal, error) {
	out := []*models.Goal{}
	for _, g := range m.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memGoals) Update(ctx context.Context, g *models.Goal) error {
	for i, existing := range m.goals {
		if existing.ID == g.ID && existing.UserID == g.UserID {
			m.goals[i] = g
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memGoals) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) error {
	for _, g := range m.goals {
		if g.ID == id && g.UserID == userID {
			g.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memGoals) Delete(ctx context.Context, id, userID uuid.UUID) error {
	for i, g := range m.goals {
		if g.ID == id && g.UserID == userID {
			m.goals = append(m.goals[:i], m.goals[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func TestGoalService_Lifecycle(t *testing.T) {
	store := &memGoals{}
	svc := NewGoalService(store)
	ctx := context.Background()
	userID := uuid.New()

	goal, err := svc.Create(ctx, userID, models.GoalRequest{Title: "  Finish kinematics  ", TargetDate: "2026-03-15"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.Title != "Finish kinematics" || goal.Status != models.GoalPending {
		t.Fatalf("unexpected goal: %+v", goal)
	}
	if goal.TargetDate == nil || goal.TargetDate.Format("2006-01-02") != "2026-03-15" {
		t.Fatalf("expected parsed target date, got %v", goal.TargetDate)
	}

	updated, err := svc.Update(ctx, userID, goal.ID, models.GoalRequest{Title: "Finish kinematics", Status: models.GoalInProgress})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.GoalInProgress || updated.TargetDate != nil {
		t.Fatalf("expected in-progress goal without date, got %+v", updated)
	}

	if err := svc.UpdateStatus(ctx, userID, goal.ID, models.GoalStatusRequest{Status: models.GoalCompleted}); err != nil {
		t.Fatalf("status: %v", err)
	}
	goals, _ := svc.List(ctx, userID)
	if len(goals) != 1 || goals[0].Status != models.GoalCompleted {
		t.Fatalf("expected completed goal, got %+v", goals)
	}

	if err := svc.Delete(ctx, userID, goal.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, userID, goal.ID); err == nil {
		t.Fatalf("expected NotFoundError on second delete")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestGoalService_Validation(t *testing.T) {
	svc := NewGoalService(&memGoals{})

	_, err := svc.Create(context.Background(), uuid.New(), models.GoalRequest{Title: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["title"] == "" {
		t.Fatalf("expected title validation error, got %v", err)
	}

	err = svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), models.GoalStatusRequest{Status: "done"})
	if !errors.As(err, &verr) || verr.Fields["status"] == "" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestGoalService_OtherUsersGoal(t *testing.T) {
	store := &memGoals{}
	svc := NewGoalService(store)
	goal, _ := svc.Create(context.Background(), uuid.New(), models.GoalRequest{Title: "Mine"})

	_, err := svc.Update(context.Background(), uuid.New(), goal.ID, models.GoalRequest{Title: "Theirs"})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
