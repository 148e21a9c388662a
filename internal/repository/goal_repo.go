package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studytrack-backend/internal/models"
)

type GoalRepo struct {
	pool *pgxpool.Pool
}

func NewGoalRepo(pool *pgxpool.Pool) *GoalRepo {
	return &GoalRepo{pool: pool}
}

const goalColumns = `id, user_id, title, description, target_date, status, created_at`

func scanGoal(row interface{ Scan(...any) error }) (*models.Goal, error) {
	g := &models.Goal{}
	if err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetDate, &g.Status, &g.CreatedAt); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GoalRepo) Create(ctx context.Context, g *models.Goal) error {
	g.ID = uuid.New()
	if g.Status == "" {
		g.Status = models.GoalPending
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO goals (id, user_id, title, description, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		g.ID, g.UserID, g.Title, g.Description, g.TargetDate, g.Status,
	).Scan(&g.CreatedAt)
}

func (r *GoalRepo) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Goal, error) {
	return scanGoal(r.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID))
}

// ListByUser returns goals newest first. limit <= 0 returns all of them.
func (r *GoalRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]*models.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *GoalRepo) Update(ctx context.Context, g *models.Goal) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE goals SET title = $1, description = $2, target_date = $3, status = $4
		WHERE id = $5 AND user_id = $6`,
		g.Title, g.Description, g.TargetDate, g.Status, g.ID, g.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *GoalRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE goals SET status = $1 WHERE id = $2 AND user_id = $3", status, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *GoalRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM goals WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
