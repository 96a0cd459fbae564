// Package sigerr defines the stable error envelopes returned by the credential
// packages. Every failure is a *goerrors.Error carrying one of the text codes
// below so callers can branch on the code instead of the message.
package sigerr

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeMissingField      = "USERSIG_MISSING_FIELD"
	TextCodeEncoding          = "USERSIG_ENCODING"
	TextCodeDecode            = "USERSIG_DECODE"
	TextCodeCompression       = "USERSIG_COMPRESSION"
	TextCodeTamperedOrCorrupt = "USERSIG_TAMPERED_OR_CORRUPT"
	TextCodeMalformedPayload  = "USERSIG_MALFORMED_PAYLOAD"
	TextCodeIdentityMismatch  = "USERSIG_IDENTITY_MISMATCH"
	TextCodeSignatureInvalid  = "USERSIG_SIGNATURE_INVALID"
	TextCodeNoPrivateKey      = "USERSIG_NO_PRIVATE_KEY"
	TextCodeNoPublicKey       = "USERSIG_NO_PUBLIC_KEY"
	TextCodeKey               = "USERSIG_KEY"
	TextCodeCryptoBackend     = "USERSIG_CRYPTO_BACKEND"
	TextCodeBadInput          = "USERSIG_BAD_INPUT"
	TextCodeInternal          = "USERSIG_INTERNAL_ERROR"
)

// New builds an error envelope for the given text code.
func New(textCode string, message string) *goerrors.Error {
	return envelope(goerrors.New(message, categoryFor(textCode)), textCode)
}

// Wrap builds an error envelope for textCode that keeps source as its cause.
// The category and status always follow textCode, even when source is itself
// an envelope with a different code.
func Wrap(source error, textCode string, message string) *goerrors.Error {
	if source == nil {
		return New(textCode, message)
	}
	return envelope(goerrors.Wrap(source, categoryFor(textCode), message), textCode)
}

// WithMetadata attaches metadata to err when err is an envelope.
func WithMetadata(err error, metadata map[string]any) error {
	if err == nil || len(metadata) == 0 {
		return err
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		rich.WithMetadata(metadata)
	}
	return err
}

// Code returns the text code of the outermost envelope in err's chain, or an
// empty string when err carries none.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich == nil {
		return ""
	}
	return strings.TrimSpace(rich.TextCode)
}

// Is reports whether err carries textCode.
func Is(err error, textCode string) bool {
	return err != nil && Code(err) == textCode
}

// Unauthorized reports whether err means the credential must not be trusted.
func Unauthorized(err error) bool {
	switch Code(err) {
	case TextCodeDecode,
		TextCodeCompression,
		TextCodeTamperedOrCorrupt,
		TextCodeMalformedPayload,
		TextCodeIdentityMismatch,
		TextCodeSignatureInvalid:
		return true
	}
	return false
}

func envelope(err *goerrors.Error, textCode string) *goerrors.Error {
	if err == nil {
		return nil
	}
	category := categoryFor(textCode)
	err.Category = category
	err.TextCode = textCode
	err.Code = StatusFor(category)
	return err
}

func categoryFor(textCode string) goerrors.Category {
	switch textCode {
	case TextCodeMissingField, TextCodeEncoding, TextCodeBadInput:
		return goerrors.CategoryBadInput
	case TextCodeDecode, TextCodeCompression, TextCodeTamperedOrCorrupt, TextCodeMalformedPayload:
		return goerrors.CategoryValidation
	case TextCodeIdentityMismatch, TextCodeSignatureInvalid:
		return goerrors.CategoryAuth
	case TextCodeNoPrivateKey, TextCodeNoPublicKey, TextCodeKey:
		return goerrors.CategoryOperation
	default:
		return goerrors.CategoryInternal
	}
}

// StatusFor maps a category to the HTTP status carried by the envelope.
func StatusFor(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
