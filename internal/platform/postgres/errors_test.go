package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: foreignKeyViolationCode}, store.ErrInvalidEntity},
		{"check violation", &pgconn.PgError{Code: checkViolationCode}, store.ErrInvalidEntity},
		{"not null violation", &pgconn.PgError{Code: notNullViolationCode}, store.ErrInvalidEntity},
		{"numeric out of range", &pgconn.PgError{Code: numericOutOfRangeCode}, store.ErrInvalidEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tc.err), tc.want)
		})
	}

	assert.NoError(t, MapError(nil))
	plain := errors.New("boom")
	assert.Equal(t, plain, MapError(plain))
}

func TestMapUserUniqueViolation(t *testing.T) {
	t.Parallel()

	other := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "user_tokens_token_key"}
	err := mapUserUniqueViolation(other)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NotErrorIs(t, err, store.ErrAccountExists)
	assert.NotErrorIs(t, err, store.ErrEmailExists)
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), "token"))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), "token"), store.ErrNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), ""), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, "token"))
	assert.Error(t, CheckRowsAffected(sqlmock.NewErrorResult(errors.New("driver")), "token"))
}
