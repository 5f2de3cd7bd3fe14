package repository

import (
	"errors"
	"fmt"
	"testing"

	"tablebooking/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPGError(t *testing.T) {
	testCases := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows is not found", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"serialization failure retries", &pgconn.PgError{Code: "40001"}, domain.ErrConflictRetryable},
		{"deadlock retries", &pgconn.PgError{Code: "40P01"}, domain.ErrConflictRetryable},
		{"exclusion violation retries", &pgconn.PgError{Code: "23P01"}, domain.ErrConflictRetryable},
		{"lock not available retries", &pgconn.PgError{Code: "55P03"}, domain.ErrConflictRetryable},
		{"statement timeout retries", &pgconn.PgError{Code: "57014"}, domain.ErrConflictRetryable},
		{"fk violation is table in use", &pgconn.PgError{Code: "23503"}, domain.ErrTableInUse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapPGError(tc.in)
			if tc.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tc.want)
		})
	}
}

func TestMapPGError_UnknownPassesThrough(t *testing.T) {
	unknown := errors.New("connection refused")
	assert.Equal(t, unknown, mapPGError(unknown))

	// A constraint class the mapping does not special-case keeps its identity.
	notNull := &pgconn.PgError{Code: "23502"}
	got := mapPGError(notNull)
	assert.NotErrorIs(t, got, domain.ErrConflictRetryable)
	assert.NotErrorIs(t, got, domain.ErrTableInUse)
}
