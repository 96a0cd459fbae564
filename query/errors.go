package query

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-usersig/sigerr"
)

func queryDependencyError(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(sigerr.TextCodeInternal)
}

func queryValidationError(field string, message string) error {
	return goerrors.NewValidation("query: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(sigerr.TextCodeBadInput).
		WithSeverity(goerrors.SeverityError)
}
