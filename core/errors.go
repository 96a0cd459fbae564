package core

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-usersig/sigerr"
)

// serviceErrorMapper keeps sigerr envelopes as they are and turns anything
// else into an envelope with a status and text code.
func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = sigerr.StatusFor(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return sigerr.TextCodeBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return sigerr.TextCodeSignatureInvalid
	default:
		return sigerr.TextCodeInternal
	}
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	return mapBuildError(s.errorMapper, err)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
