package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrRestrictedDelete          = errors.New("delete restricted by dependent rows")
	ErrTransactionFailed         = errors.New("transaction failed")
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// IsUniqueViolation reports whether err came from a unique index rejecting a write,
// on any of the supported stores.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrUniqueConstraintViolation) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

// IsForeignKeyViolation reports whether err came from a foreign key rejecting a write
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, ErrForeignKeyConstraint) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "foreign key constraint")
}

// NewDatabaseError creates a new database error with details about the operation.
// Errors that are already ApiErrs pass through untouched.
func NewDatabaseError(operation, entity string, cause error) error {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return cause
	}

	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	if cause != nil {
		switch {
		case errors.Is(cause, gorm.ErrRecordNotFound):
			notFound := NewNotFound(entity)
			notFound.Details = details
			notFound.Cause = cause
			return notFound
		case IsUniqueViolation(cause):
			return NewUniqueConstraintViolationError(entity, cause)
		case IsForeignKeyViolation(cause):
			if strings.HasPrefix(operation, "delete") {
				return NewRestrictedDeleteError(entity, "dependent rows", cause)
			}
			return NewForeignKeyConstraintError(entity, cause)
		case strings.Contains(cause.Error(), "connection"):
			return &ApiErr{
				StatusCode: http.StatusServiceUnavailable,
				err:        ErrDatabaseConnection,
				Details:    "Unable to connect to database",
				Cause:      cause,
			}
		}
	}

	// Generic database error
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUniqueConstraintViolation,
		Details:    fmt.Sprintf("%s already exists", entity),
		Cause:      cause,
	}
}

func NewForeignKeyConstraintError(entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrForeignKeyConstraint,
		Details:    fmt.Sprintf("invalid reference in %s", entity),
		Cause:      cause,
	}
}

func NewRestrictedDeleteError(entity, referencedBy string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrRestrictedDelete,
		Details:    fmt.Sprintf("%s is still referenced by %s", entity, referencedBy),
		Cause:      cause,
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
	}
}

func IsForeignKeyConstraintError(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}

func IsRestrictedDeleteError(err error) bool {
	return errors.Is(err, ErrRestrictedDelete)
}
