package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"studytrack-backend/internal/middleware"
	"studytrack-backend/internal/models"
	"studytrack-backend/internal/services"
)

type trackerService interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error)
	Active(ctx context.Context, userID uuid.UUID) (*models.ActiveSessionView, error)
	Start(ctx context.Context, userID uuid.UUID, req models.StartSessionRequest) (*models.StudySession, error)
	End(ctx context.Context, userID, sessionID uuid.UUID, req models.EndSessionRequest) (*models.StudySession, error)
	Overview(ctx context.Context, userID uuid.UUID) (*services.TrackerOverview, error)
}

type StudySessionHandler struct {
	tracker trackerService
}

func NewStudySessionHandler(tracker trackerService) *StudySessionHandler {
	return &StudySessionHandler{tracker: tracker}
}

func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, 50, 200)
	sessions, err := h.tracker.List(r.Context(), middleware.GetUserID(r.Context()), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *StudySessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	active, err := h.tracker.Active(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"active": active})
}

func (h *StudySessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.tracker.Start(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *StudySessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req models.EndSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.tracker.End(r.Context(), middleware.GetUserID(r.Context()), sessionID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *StudySessionHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.tracker.Overview(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
