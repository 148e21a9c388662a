package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type stubGoalService struct {
	created  *models.GoalRequest
	statuses []string
}

func (s *stubGoalService) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	return []*models.Goal{}, nil
}

func (s *stubGoalService) Create(ctx context.Context, userID uuid.UUID, req models.GoalRequest) (*models.Goal, error) {
	s.created = &req
	return &models.Goal{ID: uuid.New(), UserID: userID, Title: req.Title, Status: models.GoalPending}, nil
}

func (s *stubGoalService) Update(ctx context.Context, userID, goalID uuid.UUID, req models.GoalRequest) (*models.Goal, error) {
	return &models.Goal{ID: goalID, UserID: userID, Title: req.Title}, nil
}

func (s *stubGoalService) UpdateStatus(ctx context.Context, userID, goalID uuid.UUID, req models.GoalStatusRequest) error {
	s.statuses = append(s.statuses, req.Status)
	return nil
}

func (s *stubGoalService) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	return nil
}

func TestCreateGoal_UnknownFieldRejected(t *testing.T) {
	svc := &stubGoalService{}
	h := NewGoalHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, authedRequest(http.MethodPost, "/api/v1/goals", `{"title":"Finish optics","user_id":"someone-else"}`, uuid.New(), nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if svc.created != nil {
		t.Error("service must not be called for a rejected body")
	}
}

func TestCreateGoal_Created(t *testing.T) {
	svc := &stubGoalService{}
	h := NewGoalHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, authedRequest(http.MethodPost, "/api/v1/goals", map[string]string{"title": "Finish optics"}, uuid.New(), nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var goal models.Goal
	json.NewDecoder(rr.Body).Decode(&goal)
	if goal.Title != "Finish optics" {
		t.Errorf("expected title echoed back, got %q", goal.Title)
	}
}

func TestListGoals_EmptyIsArray(t *testing.T) {
	h := NewGoalHandler(&stubGoalService{})

	rr := httptest.NewRecorder()
	h.List(rr, authedRequest(http.MethodGet, "/api/v1/goals", nil, uuid.New(), nil))

	var body map[string]json.RawMessage
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body["goals"]) != "[]" {
		t.Errorf("expected empty array, got %s", body["goals"])
	}
}

func TestUpdateGoalStatus(t *testing.T) {
	svc := &stubGoalService{}
	h := NewGoalHandler(svc)
	id := uuid.New().String()

	rr := httptest.NewRecorder()
	h.UpdateStatus(rr, authedRequest(http.MethodPut, "/api/v1/goals/"+id+"/status", map[string]string{"status": "completed"}, uuid.New(), map[string]string{"id": id}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(svc.statuses) != 1 || svc.statuses[0] != "completed" {
		t.Errorf("expected one completed status update, got %v", svc.statuses)
	}
}
