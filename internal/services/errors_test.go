// internal/services/errors_test.go
package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))

	// Wrapped errors still match
	wrapped := fmt.Errorf("create failed: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))

	// Other SQLSTATEs and plain errors do not
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "40001"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate key value")))
	assert.False(t, isUniqueViolation(nil))
}

func TestSentinelWrapping(t *testing.T) {
	err := fmt.Errorf("%w: order", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))

	err = fmt.Errorf("%w: pending -> delivered", ErrInvalidTransition)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}
