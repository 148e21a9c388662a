package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studytrack-backend/internal/middleware"
	"studytrack-backend/internal/models"
)

type goalService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error)
	Create(ctx context.Context, userID uuid.UUID, req models.GoalRequest) (*models.Goal, error)
	Update(ctx context.Context, userID, goalID uuid.UUID, req models.GoalRequest) (*models.Goal, error)
	UpdateStatus(ctx context.Context, userID, goalID uuid.UUID, req models.GoalStatusRequest) error
	Delete(ctx context.Context, userID, goalID uuid.UUID) error
}

type GoalHandler struct {
	goals goalService
}

func NewGoalHandler(goals goalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goals.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	goal, err := h.goals.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	goalID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.GoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	goal, err := h.goals.Update(r.Context(), middleware.GetUserID(r.Context()), goalID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	goalID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.GoalStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.goals.UpdateStatus(r.Context(), middleware.GetUserID(r.Context()), goalID, req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": goalID, "status": req.Status})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.goals.Delete(r.Context(), middleware.GetUserID(r.Context()), goalID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
