package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type catalogService interface {
	Subjects(ctx context.Context, search string) ([]*models.Subject, error)
	Topics(ctx context.Context, subjectID uuid.UUID) ([]*models.Topic, error)
	Notes(ctx context.Context, topicID uuid.UUID) ([]*models.Note, error)
	Questions(ctx context.Context, topicID uuid.UUID) ([]models.PublicQuestion, error)
}

type CatalogHandler struct {
	catalog catalogService
}

func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.catalog.Subjects(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *CatalogHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	topics, err := h.catalog.Topics(r.Context(), subjectID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}

func (h *CatalogHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	topicID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	notes, err := h.catalog.Notes(r.Context(), topicID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *CatalogHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	topicID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	questions, err := h.catalog.Questions(r.Context(), topicID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
