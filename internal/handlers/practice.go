package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studytrack-backend/internal/middleware"
	"studytrack-backend/internal/models"
	"studytrack-backend/internal/services"
)

type practiceService interface {
	Start(ctx context.Context, userID, topicID uuid.UUID) (*services.PracticeView, error)
	Get(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error)
	Select(ctx context.Context, userID, attemptID uuid.UUID, option int) (*services.PracticeView, error)
	Submit(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error)
	Advance(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error)
	Reset(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error)
	Leave(ctx context.Context, userID, attemptID uuid.UUID) error
	Results(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID) ([]*models.QuizResult, error)
}

type PracticeHandler struct {
	practice practiceService
}

func NewPracticeHandler(practice practiceService) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	topicID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := h.practice.Start(r.Context(), middleware.GetUserID(r.Context()), topicID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *PracticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.practice.Get)
}

func (h *PracticeHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req models.SelectOptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := services.ValidateStruct(req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	h.step(w, r, func(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error) {
		return h.practice.Select(ctx, userID, attemptID, *req.Option)
	})
}

func (h *PracticeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.practice.Submit)
}

func (h *PracticeHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.practice.Advance)
}

func (h *PracticeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, h.practice.Reset)
}

func (h *PracticeHandler) Leave(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.practice.Leave(r.Context(), middleware.GetUserID(r.Context()), attemptID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PracticeHandler) Results(w http.ResponseWriter, r *http.Request) {
	var topicID *uuid.UUID
	if raw := r.URL.Query().Get("topic_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid topic_id", r))
			return
		}
		topicID = &id
	}

	results, err := h.practice.Results(r.Context(), middleware.GetUserID(r.Context()), topicID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (h *PracticeHandler) step(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, attemptID uuid.UUID) (*services.PracticeView, error)) {
	attemptID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	view, err := fn(r.Context(), middleware.GetUserID(r.Context()), attemptID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
