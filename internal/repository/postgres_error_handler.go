package repository

import (
	"errors"
	"strings"

	apperrors "github.com/Taichi-iskw/rmtrans/internal/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// handlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func handlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr, operation)

	case "23503": // FOREIGN_KEY_VIOLATION
		return handleForeignKeyViolation(pgErr, operation)

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, operation+": required field is missing")

	case "23514": // CHECK_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, operation+": data violates check constraint")

	case "40001", "40P01": // SERIALIZATION_FAILURE, DEADLOCK_DETECTED
		return apperrors.Wrap(err, apperrors.CodeConflict, operation+": concurrent modification, retry the command")

	case "42P01":
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found (run the migrations)")

	case "42703":
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found (run the migrations)")

	case "08000", "08003", "08006":
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300":
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		message := operation + ": database error (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "content_fields"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, operation+": field is set twice for the same language")

	case strings.Contains(constraintName, "content_versions"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, operation+": version already exists")

	case strings.Contains(constraintName, "login"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, operation+": user with this login already exists")

	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, operation+": resource already exists")
	}
}

// handleForeignKeyViolation provides specific error messages for foreign key constraints
func handleForeignKeyViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "parent_location_id") && strings.HasPrefix(operation, "delete"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": location still has child locations")

	case strings.Contains(constraintName, "parent_location_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced parent location does not exist")

	case strings.Contains(constraintName, "content_type_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced content type does not exist")

	case strings.Contains(constraintName, "owner_id"), strings.Contains(constraintName, "creator_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced user does not exist")

	case strings.Contains(constraintName, "content_id"):
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": content is still referenced")

	default:
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced resource does not exist")
	}
}
