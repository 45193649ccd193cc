package utils

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var ErrorRecordNotFound = errors.New("record not found")

// ErrorInfrastructure marks persistence/cache layer failures so the API
// surface can return a distinct status and let clients fall back to a
// degraded read-only mode instead of treating it as a generic failure.
var ErrorInfrastructure = errors.New("service temporarily unavailable")

// ErrorDuplicateIngredient is warning-grade: the recipe already contains a
// line for the ingredient. Quantities are never merged silently.
var ErrorDuplicateIngredient = errors.New("ingredient is already in the recipe")

// ErrorStaleWrite rejects a save carrying an outdated concurrency token.
var ErrorStaleWrite = errors.New("record was modified by another user")

// ValidationError carries a field-level message for 400-grade rejections.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicateKeyError reports whether err is a MySQL unique-constraint
// violation. ValidateUnique pre-checks names, but a concurrent insert can
// still trip the index; callers turn this into a field error, not a 5xx.
func IsDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
