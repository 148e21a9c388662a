package services

import (
	"context"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
)

type catalogReader interface {
	List(ctx context.Context, search string) ([]*models.Subject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	ListTopics(ctx context.Context, subjectID uuid.UUID) ([]*models.Topic, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error)
}

type noteLister interface {
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]*models.Note, error)
}

// CatalogService serves the read-only subject, topic, note and question
// reference data.
type CatalogService struct {
	subjects  catalogReader
	notes     noteLister
	questions questionLister
}

func NewCatalogService(subjects catalogReader, notes noteLister, questions questionLister) *CatalogService {
	return &CatalogService{subjects: subjects, notes: notes, questions: questions}
}

func (s *CatalogService) Subjects(ctx context.Context, search string) ([]*models.Subject, error) {
	subjects, err := s.subjects.List(ctx, search)
	if err != nil {
		return nil, transport("load subjects", err)
	}
	return subjects, nil
}

func (s *CatalogService) Topics(ctx context.Context, subjectID uuid.UUID) ([]*models.Topic, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		return nil, notFoundOr("load topics", "Subject not found", err)
	}
	topics, err := s.subjects.ListTopics(ctx, subjectID)
	if err != nil {
		return nil, transport("load topics", err)
	}
	return topics, nil
}

func (s *CatalogService) Notes(ctx context.Context, topicID uuid.UUID) ([]*models.Note, error) {
	if _, err := s.subjects.GetTopic(ctx, topicID); err != nil {
		return nil, notFoundOr("load notes", "Topic not found", err)
	}
	notes, err := s.notes.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, transport("load notes", err)
	}
	return notes, nil
}

// Questions lists a topic's questions without answers. Answers are only
// revealed through a practice attempt.
func (s *CatalogService) Questions(ctx context.Context, topicID uuid.UUID) ([]models.PublicQuestion, error) {
	if _, err := s.subjects.GetTopic(ctx, topicID); err != nil {
		return nil, notFoundOr("load questions", "Topic not found", err)
	}
	questions, err := s.questions.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, transport("load questions", err)
	}
	public := make([]models.PublicQuestion, len(questions))
	for i, q := range questions {
		public[i] = q.Public()
	}
	return public, nil
}
