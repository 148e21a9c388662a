package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/quiz"
	"studytrack-backend/internal/repository"
)

// PracticeAttempt is the live state of one learner working through a topic's
// questions. RunID changes on every reset so each completed run is stored as
// its own result.
type PracticeAttempt struct {
	ID          uuid.UUID    `json:"id"`
	RunID       uuid.UUID    `json:"run_id"`
	UserID      uuid.UUID    `json:"user_id"`
	TopicID     uuid.UUID    `json:"topic_id"`
	QuestionIDs []uuid.UUID  `json:"question_ids"`
	Attempt     quiz.Attempt `json:"attempt"`
	StartedAt   time.Time    `json:"started_at"`
	Saved       bool         `json:"saved"`
}

// PracticeView is what the client renders. The correct answer and
// explanation appear only once the current question is revealed.
type PracticeView struct {
	ID            uuid.UUID             `json:"id"`
	TopicID       uuid.UUID             `json:"topic_id"`
	Phase         quiz.Phase            `json:"phase"`
	Index         int                   `json:"index"`
	Total         int                   `json:"total"`
	Progress      string                `json:"progress"`
	Question      models.PublicQuestion `json:"question"`
	Selected      *int                  `json:"selected"`
	Revealed      bool                  `json:"revealed"`
	CorrectAnswer *int                  `json:"correct_answer,omitempty"`
	Explanation   *string               `json:"explanation,omitempty"`
	IsCorrect     *bool                 `json:"is_correct,omitempty"`
	Score         int                   `json:"score"`
	Answered      int                   `json:"answered"`
	ScoreDisplay  string                `json:"score_display"`
	Percent       *int                  `json:"percent,omitempty"`
}

type attemptStore interface {
	Save(ctx context.Context, id uuid.UUID, v any) error
	Load(ctx context.Context, id uuid.UUID, v any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type questionLister interface {
	ListByTopic(ctx context.Context, topicID uuid.UUID) ([]models.PracticeQuestion, error)
}

type topicGetter interface {
	GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error)
}

type resultStore interface {
	SaveResult(ctx context.Context, res *models.QuizResult) error
	ListResults(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID) ([]*models.QuizResult, error)
}

type PracticeService struct {
	attempts  attemptStore
	questions questionLister
	topics    topicGetter
	results   resultStore
	now       func() time.Time
}

func NewPracticeService(attempts attemptStore, questions questionLister, topics topicGetter, results resultStore) *PracticeService {
	return &PracticeService{
		attempts:  attempts,
		questions: questions,
		topics:    topics,
		results:   results,
		now:       time.Now,
	}
}

func (s *PracticeService) Start(ctx context.Context, userID, topicID uuid.UUID) (*PracticeView, error) {
	if _, err := s.topics.GetTopic(ctx, topicID); err != nil {
		return nil, notFoundOr("start practice", "Topic not found", err)
	}

	questions, err := s.questions.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, transport("load questions", err)
	}

	engine, err := quiz.New(questions)
	if errors.Is(err, quiz.ErrNoQuestions) {
		return nil, &NotFoundError{Message: "No practice questions for this topic yet"}
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	pa := &PracticeAttempt{
		ID:          uuid.New(),
		RunID:       uuid.New(),
		UserID:      userID,
		TopicID:     topicID,
		QuestionIDs: ids,
		Attempt:     engine.Reset(),
		StartedAt:   s.now().UTC(),
	}
	if err := s.attempts.Save(ctx, pa.ID, pa); err != nil {
		return nil, transport("save practice attempt", err)
	}

	return buildView(pa, engine), nil
}

func (s *PracticeService) Get(ctx context.Context, userID, attemptID uuid.UUID) (*PracticeView, error) {
	pa, engine, err := s.load(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	return buildView(pa, engine), nil
}

// Select records the learner's choice. Out-of-range choices and choices on a
// revealed question leave the attempt unchanged.
func (s *PracticeService) Select(ctx context.Context, userID, attemptID uuid.UUID, option int) (*PracticeView, error) {
	return s.update(ctx, userID, attemptID, func(e *quiz.Engine, a quiz.Attempt) (quiz.Attempt, error) {
		return e.Select(a, option), nil
	})
}

func (s *PracticeService) Submit(ctx context.Context, userID, attemptID uuid.UUID) (*PracticeView, error) {
	return s.update(ctx, userID, attemptID, func(e *quiz.Engine, a quiz.Attempt) (quiz.Attempt, error) {
		return e.Submit(a)
	})
}

func (s *PracticeService) Advance(ctx context.Context, userID, attemptID uuid.UUID) (*PracticeView, error) {
	return s.update(ctx, userID, attemptID, func(e *quiz.Engine, a quiz.Attempt) (quiz.Attempt, error) {
		return e.Advance(a)
	})
}

func (s *PracticeService) Reset(ctx context.Context, userID, attemptID uuid.UUID) (*PracticeView, error) {
	pa, engine, err := s.load(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	pa.Attempt = engine.Reset()
	pa.RunID = uuid.New()
	pa.Saved = false
	pa.StartedAt = s.now().UTC()

	if err := s.attempts.Save(ctx, pa.ID, pa); err != nil {
		return nil, transport("save practice attempt", err)
	}
	return buildView(pa, engine), nil
}

// Leave discards the attempt. A completed run has already been stored.
func (s *PracticeService) Leave(ctx context.Context, userID, attemptID uuid.UUID) error {
	if _, _, err := s.load(ctx, userID, attemptID); err != nil {
		return err
	}
	if err := s.attempts.Delete(ctx, attemptID); err != nil && !errors.Is(err, repository.ErrAttemptNotFound) {
		return transport("discard practice attempt", err)
	}
	return nil
}

func (s *PracticeService) Results(ctx context.Context, userID uuid.UUID, topicID *uuid.UUID) ([]*models.QuizResult, error) {
	results, err := s.results.ListResults(ctx, userID, topicID)
	if err != nil {
		return nil, transport("load practice results", err)
	}
	return results, nil
}

func (s *PracticeService) update(ctx context.Context, userID, attemptID uuid.UUID, step func(*quiz.Engine, quiz.Attempt) (quiz.Attempt, error)) (*PracticeView, error) {
	pa, engine, err := s.load(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}

	next, err := step(engine, pa.Attempt)
	if err != nil {
		return nil, mapQuizError(err)
	}
	pa.Attempt = next

	if pa.Attempt.Complete && !pa.Saved {
		result := &models.QuizResult{
			UserID:      userID,
			TopicID:     pa.TopicID,
			AttemptID:   pa.RunID,
			Score:       pa.Attempt.Score,
			Total:       engine.Total(),
			Percent:     engine.Percent(pa.Attempt),
			CompletedAt: s.now().UTC(),
		}
		if err := s.results.SaveResult(ctx, result); err != nil {
			return nil, transport("save practice result", err)
		}
		pa.Saved = true
	}

	if err := s.attempts.Save(ctx, pa.ID, pa); err != nil {
		return nil, transport("save practice attempt", err)
	}
	return buildView(pa, engine), nil
}

// load fetches the attempt and rebuilds its engine with questions in the
// order the attempt started with.
func (s *PracticeService) load(ctx context.Context, userID, attemptID uuid.UUID) (*PracticeAttempt, *quiz.Engine, error) {
	var pa PracticeAttempt
	if err := s.attempts.Load(ctx, attemptID, &pa); err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return nil, nil, &NotFoundError{Message: "Practice attempt not found"}
		}
		return nil, nil, transport("load practice attempt", err)
	}
	if pa.UserID != userID {
		return nil, nil, &NotFoundError{Message: "Practice attempt not found"}
	}

	questions, err := s.questions.ListByTopic(ctx, pa.TopicID)
	if err != nil {
		return nil, nil, transport("load questions", err)
	}

	byID := make(map[uuid.UUID]models.PracticeQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]models.PracticeQuestion, 0, len(pa.QuestionIDs))
	for _, id := range pa.QuestionIDs {
		q, ok := byID[id]
		if !ok {
			return nil, nil, &ConflictError{Message: "The questions for this topic changed. Please restart practice."}
		}
		ordered = append(ordered, q)
	}

	engine, err := quiz.New(ordered)
	if err != nil {
		return nil, nil, &NotFoundError{Message: "No practice questions for this topic yet"}
	}
	return &pa, engine, nil
}

func mapQuizError(err error) error {
	switch {
	case errors.Is(err, quiz.ErrNoSelection):
		return fieldError("option", "Select an option before submitting")
	case errors.Is(err, quiz.ErrNotRevealed):
		return fieldError("attempt", "Submit an answer before moving on")
	case errors.Is(err, quiz.ErrComplete):
		return &ConflictError{Message: "This practice attempt is already complete"}
	default:
		return err
	}
}

func buildView(pa *PracticeAttempt, engine *quiz.Engine) *PracticeView {
	a := pa.Attempt
	total := engine.Total()
	view := &PracticeView{
		ID:       pa.ID,
		TopicID:  pa.TopicID,
		Phase:    a.Phase(),
		Index:    a.CurrentIndex,
		Total:    total,
		Progress: fmt.Sprintf("Question %d of %d", a.CurrentIndex+1, total),
		Question: engine.Current(a).Public(),
		Selected: a.Selected,
		Revealed: a.Revealed,
		Score:    a.Score,
		Answered: len(a.Answered),
	}
	view.ScoreDisplay = fmt.Sprintf("%d/%d", view.Score, view.Answered)

	if a.Revealed {
		if correct, ok := engine.CorrectAnswer(a); ok {
			q := engine.Current(a)
			view.CorrectAnswer = &correct
			view.Explanation = &q.Explanation
			isCorrect := a.Selected != nil && *a.Selected == correct
			view.IsCorrect = &isCorrect
		}
	}
	if a.Complete {
		percent := engine.Percent(a)
		view.Percent = &percent
	}
	return view
}
