package persistence

import (
	"errors"
	"strings"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE classes Postgres raises when a transaction loses a race.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// translate maps driver errors onto domain errors. A missing row becomes a
// not-found error naming resource and a unique violation becomes onDuplicate.
// Serialization failures and deadlocks become CONCURRENCY_CONFLICT.
func translate(err error, resource string, onDuplicate *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if onDuplicate == nil {
			onDuplicate = shared.ErrAlreadyExists
		}
		return onDuplicate
	}
	return translateConflict(err)
}

// translateConflict leaves domain errors alone so a rule violation raised
// inside a transaction reaches the caller unchanged.
func translateConflict(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if isSerializationFailure(err) {
		return shared.ErrConcurrencyConflict
	}
	return err
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
	}
	msg := err.Error()
	return strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "SQLSTATE "+sqlStateSerializationFailure) ||
		strings.Contains(msg, "SQLSTATE "+sqlStateDeadlockDetected)
}
