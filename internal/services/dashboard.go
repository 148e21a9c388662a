package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studytrack-backend/internal/models"
	"studytrack-backend/internal/stats"
)

const recentGoalsLimit = 5

type Dashboard struct {
	WeeklyMinutes  int                    `json:"weekly_minutes"`
	WeeklyDisplay  string                 `json:"weekly_display"`
	WeekStart      time.Time              `json:"week_start"`
	SubjectCount   int                    `json:"subject_count"`
	RecentGoals    []*models.Goal         `json:"recent_goals"`
	CompletedGoals int                    `json:"completed_goals"`
	ActiveGoals    int                    `json:"active_goals"`
	RecentSessions []*models.StudySession `json:"recent_sessions"`
}

type dashboardSessions interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error)
	ListStartedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.StudySession, error)
}

type goalLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Goal, error)
}

type DashboardService struct {
	sessions dashboardSessions
	subjects subjectLister
	goals    goalLister
	weeks    *WeekResolver
	now      func() time.Time
}

func NewDashboardService(sessions dashboardSessions, subjects subjectLister, goals goalLister, weeks *WeekResolver) *DashboardService {
	return &DashboardService{
		sessions: sessions,
		subjects: subjects,
		goals:    goals,
		weeks:    weeks,
		now:      time.Now,
	}
}

// Get loads every dashboard card concurrently. Any failed load fails the
// whole dashboard.
func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	now := s.now()
	cfg := s.weeks.For(ctx, userID)
	week := stats.WeekOf(now, cfg)

	var (
		weekSessions []*models.StudySession
		recent       []*models.StudySession
		subjects     []*models.Subject
		goals        []*models.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weekSessions, err = s.sessions.ListStartedSince(gctx, userID, week.Start)
		return transport("load this week's sessions", err)
	})
	g.Go(func() error {
		var err error
		recent, err = s.sessions.ListByUser(gctx, userID, recentSessionsLimit)
		return transport("load recent sessions", err)
	})
	g.Go(func() error {
		var err error
		subjects, err = s.subjects.List(gctx, "")
		return transport("load subjects", err)
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListByUser(gctx, userID, 0)
		return transport("load goals", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	minutes := stats.WeeklyMinutes(now, weekSessions, cfg)
	completed, active := stats.GoalCounts(goals)
	recentGoals := goals
	if len(recentGoals) > recentGoalsLimit {
		recentGoals = recentGoals[:recentGoalsLimit]
	}

	return &Dashboard{
		WeeklyMinutes:  minutes,
		WeeklyDisplay:  stats.HoursMinutes(minutes),
		WeekStart:      week.Start,
		SubjectCount:   len(subjects),
		RecentGoals:    recentGoals,
		CompletedGoals: completed,
		ActiveGoals:    active,
		RecentSessions: recent,
	}, nil
}
