package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgerrors "github.com/rentrackhq/rentrack-backend/pkg/errors"
)

// Postgres error classes relevant to request handling. See
// https://www.postgresql.org/docs/current/errcodes-appendix.html.
const (
	pgUniqueViolation     = "23505"
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgDataExceptionClass  = "22"
)

// Translate is the single point where raw store errors become typed API
// errors. Handlers never branch on driver error codes themselves; they funnel
// every store failure through here and override the public message when a
// resource configures one.
func Translate(err error) *pkgerrors.Error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "record not found")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store call aborted")
	}

	if code, ok := constraintClass(err); ok {
		switch code {
		case pgUniqueViolation, pgExclusionViolation:
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "conflicting record")
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference or value")
		}
		if strings.HasPrefix(code, pgDataExceptionClass) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed value")
		}
	}

	// SQLite reports constraint failures as plain text. The test database
	// runs on SQLite, so the same taxonomy must hold there.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "conflicting record")
	}
	if strings.Contains(msg, "constraint failed") {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reference or value")
	}

	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store failure")
}

func constraintClass(err error) (string, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	return "", false
}
