package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/repository"
)

//go:embed schema.sql
var schema string

// NewStore wires every postgres repository onto one connection pool.
func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Suppliers:     NewSupplierRepository(db),
		Categories:    NewCategoryRepository(db),
		Products:      NewProductRepository(db),
		Rentals:       NewRentalRepository(db),
		Substitutions: NewSubstitutionRepository(db),
	}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.Info("Applying database schema")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SQLSTATE codes we translate into domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapError converts a driver error into the domain taxonomy. op reads as "unable to <op>".
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == uniqueViolation {
			return domain.NewConflictError(fmt.Sprintf("%s violates unique constraint %s", op, pqErr.Constraint))
		}
	}
	return domain.NewStorageError(op, err)
}

// getError is mapError for single-row lookups.
func getError(entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(entity, id)
	}
	return mapError("load "+entity, err)
}

// checkAffected turns a zero-row UPDATE/DELETE into NotFound.
func checkAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("read affected rows", err)
	}
	if n == 0 {
		return domain.NewNotFoundError(entity, id)
	}
	return nil
}

// likePattern escapes LIKE metacharacters and wraps s for substring matching.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}
