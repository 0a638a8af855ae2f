package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

func TestTranslateNil(t *testing.T) {
	require.Nil(t, Translate(nil))
}

func TestTranslatePassesThroughTypedErrors(t *testing.T) {
	typed := pkgerrors.New(pkgerrors.CodeForbidden, "nope")
	require.Equal(t, typed, Translate(typed))
}

func TestTranslateTable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want pkgerrors.Code
	}{
		{"record not found", gorm.ErrRecordNotFound, pkgerrors.CodeNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), pkgerrors.CodeNotFound},
		{"context canceled", context.Canceled, pkgerrors.CodeDependency},
		{"deadline exceeded", context.DeadlineExceeded, pkgerrors.CodeDependency},
		{"pg unique", &pgconn.PgError{Code: "23505"}, pkgerrors.CodeConflict},
		{"pg exclusion", &pgconn.PgError{Code: "23P01"}, pkgerrors.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, pkgerrors.CodeValidation},
		{"pg not null", &pgconn.PgError{Code: "23502"}, pkgerrors.CodeValidation},
		{"pg check", &pgconn.PgError{Code: "23514"}, pkgerrors.CodeValidation},
		{"pg data exception", &pgconn.PgError{Code: "22P02"}, pkgerrors.CodeValidation},
		{"pq unique", &pq.Error{Code: "23505"}, pkgerrors.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: rental.barcode"), pkgerrors.CodeConflict},
		{"sqlite other constraint", errors.New("FOREIGN KEY constraint failed"), pkgerrors.CodeValidation},
		{"unknown", errors.New("connection reset"), pkgerrors.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typed := Translate(tc.err)
			require.NotNil(t, typed)
			require.Equal(t, tc.want, typed.Code())
			require.ErrorIs(t, typed, tc.err)
		})
	}
}
