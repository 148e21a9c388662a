package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

const sessionSelect = `
	SELECT s.id, s.user_id, s.subject_id, s.topic_id, s.start_time, s.end_time,
		s.duration_minutes, s.notes, s.created_at, sub.name, sub.color
	FROM study_sessions s
	JOIN subjects sub ON sub.id = s.subject_id`

func scanSession(row interface{ Scan(...any) error }) (*models.StudySession, error) {
	s := &models.StudySession{Subject: &models.SubjectRef{}}
	err := row.Scan(
		&s.ID, &s.UserID, &s.SubjectID, &s.TopicID, &s.StartTime, &s.EndTime,
		&s.DurationMinutes, &s.Notes, &s.CreatedAt, &s.Subject.Name, &s.Subject.Color,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start inserts a running session. The partial unique index on active
// sessions turns a second concurrent start into ErrActiveSession.
func (r *StudySessionRepo) Start(ctx context.Context, s *models.StudySession) error {
	query := `
		INSERT INTO study_sessions (user_id, subject_id, topic_id, start_time, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, s.UserID, s.SubjectID, s.TopicID, s.StartTime, s.Notes).Scan(&s.ID, &s.CreatedAt)
	if isUniqueViolation(err, "idx_study_sessions_active") {
		return ErrActiveSession
	}
	return err
}

// End closes a running session owned by userID. It returns pgx.ErrNoRows when
// no running session matches.
func (r *StudySessionRepo) End(ctx context.Context, sessionID, userID uuid.UUID, endTime time.Time, durationMinutes int, notes *string) error {
	var id uuid.UUID
	return r.pool.QueryRow(ctx, `
		UPDATE study_sessions
		SET end_time = $3,
			duration_minutes = $4,
			notes = COALESCE($5, notes)
		WHERE id = $1
		  AND user_id = $2
		  AND end_time IS NULL
		RETURNING id
	`, sessionID, userID, endTime, durationMinutes, notes).Scan(&id)
}

func (r *StudySessionRepo) GetByID(ctx context.Context, sessionID, userID uuid.UUID) (*models.StudySession, error) {
	return scanSession(r.pool.QueryRow(ctx, sessionSelect+` WHERE s.id = $1 AND s.user_id = $2`, sessionID, userID))
}

func (r *StudySessionRepo) GetActive(ctx context.Context, userID uuid.UUID) (*models.StudySession, error) {
	return scanSession(r.pool.QueryRow(ctx, sessionSelect+` WHERE s.user_id = $1 AND s.end_time IS NULL`, userID))
}

// ListByUser returns sessions newest first. limit <= 0 returns all of them.
func (r *StudySessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.StudySession, error) {
	query := sessionSelect + ` WHERE s.user_id = $1 ORDER BY s.start_time DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// ListStartedSince returns sessions whose start time is at or after since.
func (r *StudySessionRepo) ListStartedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.StudySession, error) {
	return r.list(ctx, sessionSelect+` WHERE s.user_id = $1 AND s.start_time >= $2 ORDER BY s.start_time DESC`, userID, since)
}

func (r *StudySessionRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.StudySession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*models.StudySession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
