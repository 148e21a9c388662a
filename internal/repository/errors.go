package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrActiveSession is returned when a user already has a running study session.
var ErrActiveSession = errors.New("active study session already exists")

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
