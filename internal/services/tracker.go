package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/repository"
	"studytrack-backend/internal/stats"
)

const recentSessionsLimit = 10

type sessionStore interface {
	Start(ctx context.Context, s *models.StudySession) error
	End(ctx context.Context, sessionID, userID uuid.UUID, endTime time.Time, durationMinutes int, notes *string) error
	GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.StudySession, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*models.StudySession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error)
}

type subjectCatalog interface {
	List(ctx context.Context, search string) ([]*models.Subject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	GetTopic(ctx context.Context, id uuid.UUID) (*models.Topic, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage)
}

// TrackerOverview is everything the time tracker page shows at once.
type TrackerOverview struct {
	Weekly         stats.WeeklySummary       `json:"weekly"`
	WeeklyDisplay  string                    `json:"weekly_display"`
	AverageMinutes int                       `json:"average_minutes"`
	CompletedCount int                       `json:"completed_count"`
	Recent         []*models.StudySession    `json:"recent"`
	Active         *models.ActiveSessionView `json:"active"`
}

// TrackerService runs the study timer: one running session per user, ended
// once with a server-computed duration.
type TrackerService struct {
	sessions sessionStore
	subjects subjectCatalog
	events   eventPublisher
	weeks    *WeekResolver
	now      func() time.Time
}

func NewTrackerService(sessions sessionStore, subjects subjectCatalog, events eventPublisher, weeks *WeekResolver) *TrackerService {
	return &TrackerService{
		sessions: sessions,
		subjects: subjects,
		events:   events,
		weeks:    weeks,
		now:      time.Now,
	}
}

func (s *TrackerService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, transport("load study sessions", err)
	}
	return sessions, nil
}

// Active returns the running session, or nil when the timer is idle.
func (s *TrackerService) Active(ctx context.Context, userID uuid.UUID) (*models.ActiveSessionView, error) {
	session, err := s.sessions.GetActive(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, transport("load active session", err)
	}
	return activeView(session, s.now()), nil
}

func activeView(session *models.StudySession, now time.Time) *models.ActiveSessionView {
	if session == nil {
		return nil
	}
	elapsed := stats.ElapsedMinutes(session.StartTime, now)
	return &models.ActiveSessionView{
		Session:        session,
		ElapsedMinutes: elapsed,
		Display:        stats.FormatDuration(elapsed),
	}
}

func (s *TrackerService) Start(ctx context.Context, userID uuid.UUID, req models.StartSessionRequest) (*models.StudySession, error) {
	req.SubjectID = strings.TrimSpace(req.SubjectID)
	req.TopicID = strings.TrimSpace(req.TopicID)
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	subjectID, _ := uuid.Parse(req.SubjectID)
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return nil, notFoundOr("start session", "Subject not found", err)
	}

	var topicID *uuid.UUID
	if req.TopicID != "" {
		id, _ := uuid.Parse(req.TopicID)
		topic, err := s.subjects.GetTopic(ctx, id)
		if err != nil {
			return nil, notFoundOr("start session", "Topic not found", err)
		}
		if topic.SubjectID != subject.ID {
			return nil, fieldError("topic_id", "Topic does not belong to this subject")
		}
		topicID = &topic.ID
	}

	if _, err := s.sessions.GetActive(ctx, userID); err == nil {
		return nil, &ConflictError{Message: "A study session is already in progress"}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, transport("start session", err)
	}

	session := &models.StudySession{
		UserID:    userID,
		SubjectID: subject.ID,
		TopicID:   topicID,
		StartTime: s.now().UTC(),
		Subject:   &models.SubjectRef{Name: subject.Name, Color: subject.Color},
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		session.Notes = &notes
	}

	if err := s.sessions.Start(ctx, session); err != nil {
		if errors.Is(err, repository.ErrActiveSession) {
			return nil, &ConflictError{Message: "A study session is already in progress"}
		}
		return nil, transport("start session", err)
	}

	s.events.Publish(ctx, userID, models.WSMessage{
		Type:    models.WSSessionStarted,
		Payload: models.SessionEvent{SessionID: session.ID, SubjectID: session.SubjectID},
	})

	return session, nil
}

// End stops a running session. Duration is whole elapsed minutes, truncated.
func (s *TrackerService) End(ctx context.Context, userID, sessionID uuid.UUID, req models.EndSessionRequest) (*models.StudySession, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, sessionID, userID)
	if err != nil {
		return nil, notFoundOr("end session", "Study session not found", err)
	}
	if !session.Active() {
		return nil, &ConflictError{Message: "Study session has already ended"}
	}

	endTime := s.now().UTC()
	duration := stats.ElapsedMinutes(session.StartTime, endTime)

	var notes *string
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		notes = &trimmed
	}

	if err := s.sessions.End(ctx, sessionID, userID, endTime, duration, notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ConflictError{Message: "Study session has already ended"}
		}
		return nil, transport("end session", err)
	}

	session.EndTime = &endTime
	session.DurationMinutes = &duration
	if notes != nil {
		session.Notes = notes
	}

	s.events.Publish(ctx, userID, models.WSMessage{
		Type:    models.WSSessionEnded,
		Payload: models.SessionEvent{SessionID: session.ID, SubjectID: session.SubjectID},
	})

	return session, nil
}

// Overview loads sessions and subjects concurrently and aggregates them for
// the user's current week.
func (s *TrackerService) Overview(ctx context.Context, userID uuid.UUID) (*TrackerOverview, error) {
	var (
		sessions []*models.StudySession
		subjects []*models.Subject
		cfg      stats.WeekConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessions.ListByUser(gctx, userID, 0)
		return transport("load study sessions", err)
	})
	g.Go(func() error {
		var err error
		subjects, err = s.subjects.List(gctx, "")
		return transport("load subjects", err)
	})
	g.Go(func() error {
		cfg = s.weeks.For(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	weekly := stats.Weekly(now, sessions, subjects, cfg)
	return &TrackerOverview{
		Weekly:         weekly,
		WeeklyDisplay:  stats.HoursMinutes(weekly.TotalMinutes),
		AverageMinutes: stats.AverageSessionLength(sessions),
		CompletedCount: stats.CompletedCount(sessions),
		Recent:         stats.Completed(sessions, recentSessionsLimit),
		Active:         activeView(stats.ActiveSession(sessions), now),
	}, nil
}
