// internal/services/errors.go
package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm/clause"
)

// forUpdate is the row lock taken while a state machine step is
// decided and applied.
func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// Sentinel errors shared by all services. Handlers map them onto HTTP
// status codes with errors.Is; anything unmatched is a 500 with a
// generic message.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("operation not permitted for this actor")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("resource conflict")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrUnauthenticated   = errors.New("authentication required")
)

// isUniqueViolation reports whether err is a Postgres unique-index
// violation (SQLSTATE 23505). The pgx driver surfaces *pgconn.PgError;
// *pq.Error is matched too for code paths using database/sql with pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
