package sigerr

import (
	stderrors "errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestNew_AssignsCategoryAndStatus(t *testing.T) {
	tests := []struct {
		code     string
		category goerrors.Category
		status   int
	}{
		{TextCodeMissingField, goerrors.CategoryBadInput, http.StatusBadRequest},
		{TextCodeTamperedOrCorrupt, goerrors.CategoryValidation, http.StatusBadRequest},
		{TextCodeSignatureInvalid, goerrors.CategoryAuth, http.StatusUnauthorized},
		{TextCodeIdentityMismatch, goerrors.CategoryAuth, http.StatusUnauthorized},
		{TextCodeNoPrivateKey, goerrors.CategoryOperation, http.StatusInternalServerError},
		{TextCodeCryptoBackend, goerrors.CategoryInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "boom")
			if err.TextCode != tt.code {
				t.Fatalf("expected text code %q, got %q", tt.code, err.TextCode)
			}
			if err.Category != tt.category {
				t.Fatalf("expected category %q, got %q", tt.category, err.Category)
			}
			if err.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, err.Code)
			}
		})
	}
}

func TestWrap_RecodesInnerEnvelope(t *testing.T) {
	inner := New(TextCodeDecode, "codec: invalid base64")
	outer := Wrap(inner, TextCodeTamperedOrCorrupt, "core: credential is corrupt")

	if got := Code(outer); got != TextCodeTamperedOrCorrupt {
		t.Fatalf("expected outer code, got %q", got)
	}
	if outer.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", outer.Category)
	}
}

func TestCodeAndIs(t *testing.T) {
	if Code(nil) != "" {
		t.Fatalf("expected empty code for nil error")
	}
	if Code(stderrors.New("plain")) != "" {
		t.Fatalf("expected empty code for plain error")
	}
	err := New(TextCodeKey, "bad key")
	if !Is(err, TextCodeKey) {
		t.Fatalf("expected Is to match key code")
	}
	if Is(err, TextCodeEncoding) {
		t.Fatalf("expected Is to reject other code")
	}
}

func TestUnauthorized(t *testing.T) {
	if !Unauthorized(New(TextCodeSignatureInvalid, "verify failed")) {
		t.Fatalf("expected signature failure to be unauthorized")
	}
	if !Unauthorized(New(TextCodeMalformedPayload, "json")) {
		t.Fatalf("expected malformed payload to be unauthorized")
	}
	if Unauthorized(New(TextCodeNoPublicKey, "missing")) {
		t.Fatalf("expected misconfiguration not to be classified as unauthorized")
	}
}
