package core

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/goliatone/go-usersig/codec"
	"github.com/goliatone/go-usersig/content"
	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/sigerr"
)

func verifyWebrtc98(t *testing.T, svc *Service, credential string) (VerifyResult, error) {
	t.Helper()
	return svc.VerifyUserSig(context.Background(), VerifyRequest{
		Credential: credential,
		UserID:     "webrtc98",
		SDKAppID:   1400037025,
	})
}

func TestVerify_AcceptsHandBuiltRecord(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)
	record := signRecord(t, material.Signer, CredentialKindUserSig, userSigFields(), map[string]any{
		"extra":         "ignored",
		"TLS.unrelated": "also ignored",
	})

	result, err := verifyWebrtc98(t, svc, encodeCredential(t, record))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Identifier != "webrtc98" || result.ExpireAfter != DefaultExpireAfter {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVerify_NumericFieldsAreStringified(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256Secp256k1)
	record := signRecord(t, material.Signer, CredentialKindUserSig, userSigFields(), map[string]any{
		"TLS.sdk_appid":    int64(1400037025),
		"TLS.time":         int64(1500000000),
		"TLS.expire_after": 300,
	})

	result, err := verifyWebrtc98(t, svc, encodeCredential(t, record))
	if err != nil {
		t.Fatalf("expected numeric values to verify, got %v", err)
	}
	if result.SDKAppID != 1400037025 || !result.IssuedAt.Equal(testIssuedAt) {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestVerify_LeadingZeroAppIDMatchesNumerically(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)
	fields := userSigFields()
	fields[content.FieldSDKAppID] = "01400037025"
	record := signRecord(t, material.Signer, CredentialKindUserSig, fields, nil)

	if _, err := verifyWebrtc98(t, svc, encodeCredential(t, record)); err != nil {
		t.Fatalf("expected numeric app id comparison, got %v", err)
	}
}

func TestVerify_CorruptEnvelope(t *testing.T) {
	svc, _ := newTestService(t, keys.AlgorithmES256P256)

	for _, credential := range []string{"", "not a credential", "eJw!!!", "AAAA"} {
		_, err := verifyWebrtc98(t, svc, credential)
		if !sigerr.Is(err, sigerr.TextCodeTamperedOrCorrupt) {
			t.Fatalf("%q: expected tampered or corrupt, got %v", credential, err)
		}
	}
}

func TestVerify_MalformedPayloads(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)
	signed := func(mutate func(map[string]any)) string {
		record := signRecord(t, material.Signer, CredentialKindUserSig, userSigFields(), nil)
		mutate(record)
		return encodeCredential(t, record)
	}
	rawCredential := func(raw string) string {
		encoded, err := codec.Encode([]byte(raw))
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		return encoded
	}

	cases := map[string]string{
		"not json":         rawCredential("hello"),
		"json array":       rawCredential(`["TLS.sig"]`),
		"json null":        rawCredential("null"),
		"trailing data":    rawCredential(`{"TLS.version":"201512300000"}{}`),
		"missing sig":      signed(func(r map[string]any) { delete(r, "TLS.sig") }),
		"empty sig":        signed(func(r map[string]any) { r["TLS.sig"] = "" }),
		"sig not base64":   signed(func(r map[string]any) { r["TLS.sig"] = "%%%" }),
		"missing time":     signed(func(r map[string]any) { delete(r, "TLS.time") }),
		"missing version":  signed(func(r map[string]any) { delete(r, "TLS.version") }),
		"other version":    signed(func(r map[string]any) { r["TLS.version"] = "201501010000" }),
		"boolean field":    signed(func(r map[string]any) { r["TLS.expire_after"] = true }),
		"object field":     signed(func(r map[string]any) { r["TLS.account_type"] = map[string]any{} }),
		"missing identity": signed(func(r map[string]any) { delete(r, "TLS.identifier") }),
	}
	for name, credential := range cases {
		_, err := verifyWebrtc98(t, svc, credential)
		if !sigerr.Is(err, sigerr.TextCodeMalformedPayload) {
			t.Fatalf("%s: expected malformed payload, got %v", name, err)
		}
		if !sigerr.Unauthorized(err) {
			t.Fatalf("%s: expected malformed payload to be unauthorized", name)
		}
	}
}

func TestVerify_SignedButUnparsableValues(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)

	fields := userSigFields()
	fields[content.FieldTime] = "yesterday"
	record := signRecord(t, material.Signer, CredentialKindUserSig, fields, nil)
	if _, err := verifyWebrtc98(t, svc, encodeCredential(t, record)); !sigerr.Is(err, sigerr.TextCodeMalformedPayload) {
		t.Fatalf("expected non-integer time to be malformed, got %v", err)
	}

	fields = userSigFields()
	fields[content.FieldExpireAfter] = "-1"
	record = signRecord(t, material.Signer, CredentialKindUserSig, fields, nil)
	if _, err := verifyWebrtc98(t, svc, encodeCredential(t, record)); !sigerr.Is(err, sigerr.TextCodeMalformedPayload) {
		t.Fatalf("expected negative expire_after to be malformed, got %v", err)
	}

	fields = userSigFields()
	fields[content.FieldUserBuf] = "AAAA"
	record = signRecord(t, material.Signer, CredentialKindPrivateMapKey, fields, nil)
	if _, err := svc.VerifyPrivateMapKey(context.Background(), VerifyRequest{
		Credential: encodeCredential(t, record),
		UserID:     "webrtc98",
		SDKAppID:   1400037025,
	}); !sigerr.Is(err, sigerr.TextCodeMalformedPayload) {
		t.Fatalf("expected short userbuf to be malformed, got %v", err)
	}
}

func TestVerify_PayloadSizeLimit(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)
	record := signRecord(t, material.Signer, CredentialKindUserSig, userSigFields(), map[string]any{
		"padding": string(make([]byte, 128<<10)),
	})

	_, err := verifyWebrtc98(t, svc, encodeCredential(t, record))
	if !sigerr.Is(err, sigerr.TextCodeTamperedOrCorrupt) {
		t.Fatalf("expected oversize payload to be rejected as corrupt, got %v", err)
	}
}

func TestVerify_AcceptsStandardAlphabetCredential(t *testing.T) {
	svc, _ := newTestService(t, keys.AlgorithmES256P256)
	for _, userID := range []string{"webrtc98", "webrtc98-with-a-longer-name", "w"} {
		credential, err := svc.IssueUserSig(context.Background(), IssueUserSigRequest{UserID: userID, SDKAppID: 1400037025})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		raw, err := codec.Decode(credential, 0)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		compressed, err := codec.Compress(raw)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		standard := base64.StdEncoding.EncodeToString(compressed)
		if strings.ContainsAny(standard, "*-_") {
			t.Fatalf("expected plain standard alphabet, got %q", standard)
		}

		result, err := svc.VerifyUserSig(context.Background(), VerifyRequest{Credential: standard, UserID: userID, SDKAppID: 1400037025})
		if err != nil {
			t.Fatalf("%s: expected standard-alphabet credential to verify, got %v", userID, err)
		}
		if result.Identifier != userID {
			t.Fatalf("unexpected identifier %q", result.Identifier)
		}
	}
}

func TestVerify_IdentityCheckedBeforeVersion(t *testing.T) {
	svc, material := newTestService(t, keys.AlgorithmES256P256)
	record := signRecord(t, material.Signer, CredentialKindUserSig, userSigFields(), nil)
	delete(record, "TLS.version")

	_, err := svc.VerifyUserSig(context.Background(), VerifyRequest{
		Credential: encodeCredential(t, record),
		UserID:     "someone-else",
		SDKAppID:   1400037025,
	})
	if !sigerr.Is(err, sigerr.TextCodeIdentityMismatch) {
		t.Fatalf("expected identity mismatch ahead of version check, got %v", err)
	}
}
