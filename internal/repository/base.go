// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"shelfware/internal/models"
	"shelfware/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation         = "23505"
	pgInvalidTextRepresention = "22P02"
)

// instrumented wraps repository calls in a span and a latency observation.
type instrumented struct {
	table   string
	metrics *observability.DatabaseMetrics
}

func newInstrumented(table string) instrumented {
	return instrumented{table: table, metrics: observability.NewDatabaseMetrics(table)}
}

func (i instrumented) start(ctx context.Context, db *gorm.DB, operation string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, db.Dialector.Name(), i.table, operation)
	done := i.metrics.TrackQuery(operation)
	return ctx, func(err error) {
		done()
		observability.EndSpan(span, err)
	}
}

// translateError maps store errors onto the API taxonomy.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource)
	case isInvalidIDError(err):
		return models.NewInvalidIDError(strings.ToLower(resource), err)
	default:
		return models.NewInternalError(err)
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// isInvalidIDError reports whether the database rejected the shape of an identifier.
func isInvalidIDError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresention
}
