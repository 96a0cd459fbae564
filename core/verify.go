package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-usersig/codec"
	"github.com/goliatone/go-usersig/content"
	"github.com/goliatone/go-usersig/record"
	"github.com/goliatone/go-usersig/sigerr"
)

func (s *Service) VerifyUserSig(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	return s.Verify(ctx, CredentialKindUserSig, req)
}

func (s *Service) VerifyPrivateMapKey(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	return s.Verify(ctx, CredentialKindPrivateMapKey, req)
}

// Verify checks a credential of the given kind against the expected user and
// application. Every failure is returned as an error envelope; expiry is not
// checked.
func (s *Service) Verify(ctx context.Context, kind CredentialKind, req VerifyRequest) (result VerifyResult, err error) {
	startedAt := time.Now()
	fields := operationFields(kind, req.UserID, req.SDKAppID)
	defer func() {
		s.observeOperation(ctx, startedAt, "verify_"+string(kind), err, fields)
	}()

	if err = kind.Validate(); err != nil {
		err = s.mapError(err)
		return VerifyResult{}, err
	}
	if s.verifier == nil {
		err = s.mapError(sigerr.New(sigerr.TextCodeNoPublicKey, "core: no public key configured for verification"))
		return VerifyResult{}, err
	}

	result, err = s.verifyCredential(kind, req)
	if err != nil {
		err = s.mapError(err)
		return VerifyResult{}, err
	}
	return result, nil
}

func (s *Service) verifyCredential(kind CredentialKind, req VerifyRequest) (VerifyResult, error) {
	raw, err := codec.Decode(req.Credential, s.config.MaxPayloadBytes)
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeTamperedOrCorrupt, "core: credential is corrupt or tampered")
	}
	fields, err := decodePayload(raw)
	if err != nil {
		return VerifyResult{}, err
	}
	sdkAppID, err := checkIdentity(fields, req)
	if err != nil {
		return VerifyResult{}, err
	}
	if err := s.checkVersion(fields); err != nil {
		return VerifyResult{}, err
	}

	build := content.BuildForUserSig
	if kind == CredentialKindPrivateMapKey {
		build = content.BuildForPrivateMapKey
	}
	signed, err := build(fields)
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: signed field missing")
	}

	encodedSig, err := requireField(fields, content.FieldSig)
	if err != nil {
		return VerifyResult{}, err
	}
	signature, err := base64.StdEncoding.Strict().DecodeString(encodedSig)
	if err != nil || len(signature) == 0 {
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: sig base64 decode error")
	}

	ok, err := s.verifier.Verify([]byte(signed), signature)
	if err != nil {
		if sigerr.Code(err) != "" {
			return VerifyResult{}, err
		}
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeCryptoBackend, "core: verify backend failure")
	}
	if !ok {
		return VerifyResult{}, sigerr.New(sigerr.TextCodeSignatureInvalid, "core: verify failed")
	}

	return buildResult(kind, fields, sdkAppID)
}

// checkVersion rejects records from another protocol version. TLS.version is
// not covered by the signature.
func (s *Service) checkVersion(fields content.Fields) error {
	version, err := requireField(fields, content.FieldVersion)
	if err != nil {
		return err
	}
	if version != s.config.Version {
		err := sigerr.New(sigerr.TextCodeMalformedPayload, fmt.Sprintf("core: unsupported version %s", version))
		return sigerr.WithMetadata(err, map[string]any{"field": string(content.FieldVersion)})
	}
	return nil
}

// checkIdentity compares the identifier exactly and the application id
// numerically, so "01400037025" matches 1400037025.
func checkIdentity(fields content.Fields, req VerifyRequest) (uint32, error) {
	identifier, err := requireField(fields, content.FieldIdentifier)
	if err != nil {
		return 0, err
	}
	if identifier != req.UserID {
		return 0, identityMismatch(fmt.Sprintf("userid error sigid:%s id:%s", identifier, req.UserID), "identifier")
	}

	rawAppID, err := requireField(fields, content.FieldSDKAppID)
	if err != nil {
		return 0, err
	}
	parsed, parseErr := strconv.ParseUint(strings.TrimSpace(rawAppID), 10, 32)
	if parseErr != nil || uint32(parsed) != req.SDKAppID {
		return 0, identityMismatch(fmt.Sprintf("sdkappid error sigappid:%s thisappid:%d", rawAppID, req.SDKAppID), "sdk_appid")
	}
	return uint32(parsed), nil
}

func identityMismatch(message string, field string) error {
	err := sigerr.New(sigerr.TextCodeIdentityMismatch, message)
	return sigerr.WithMetadata(err, map[string]any{"field": field})
}

func buildResult(kind CredentialKind, fields content.Fields, sdkAppID uint32) (VerifyResult, error) {
	issuedAt, err := integerField(fields, content.FieldTime)
	if err != nil {
		return VerifyResult{}, err
	}
	expireAfter, err := integerField(fields, content.FieldExpireAfter)
	if err != nil {
		return VerifyResult{}, err
	}
	if expireAfter < 0 {
		return VerifyResult{}, sigerr.New(sigerr.TextCodeMalformedPayload, "core: negative expire_after")
	}

	result := VerifyResult{
		Kind:        kind,
		Identifier:  fields[content.FieldIdentifier],
		SDKAppID:    sdkAppID,
		AccountType: fields[content.FieldAccountType],
		Version:     fields[content.FieldVersion],
		IssuedAt:    time.Unix(issuedAt, 0).UTC(),
		ExpireAfter: time.Duration(expireAfter) * time.Second,
	}
	if kind != CredentialKindPrivateMapKey {
		return result, nil
	}

	userBuf, err := base64.StdEncoding.Strict().DecodeString(fields[content.FieldUserBuf])
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: userbuf base64 decode error")
	}
	rec, err := record.Unpack(userBuf)
	if err != nil {
		return VerifyResult{}, sigerr.Wrap(err, sigerr.TextCodeMalformedPayload, "core: userbuf is not an authorization record")
	}
	result.UserBuf = userBuf
	result.Record = &rec
	return result, nil
}

func integerField(fields content.Fields, field content.Field) (int64, error) {
	raw, err := requireField(fields, field)
	if err != nil {
		return 0, err
	}
	value, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if parseErr != nil {
		err := sigerr.Wrap(parseErr, sigerr.TextCodeMalformedPayload, "core: "+string(field)+" is not an integer")
		return 0, sigerr.WithMetadata(err, map[string]any{"field": string(field)})
	}
	return value, nil
}
