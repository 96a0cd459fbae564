package core

import (
	"context"
	"encoding/base64"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-usersig/codec"
	"github.com/goliatone/go-usersig/content"
	"github.com/goliatone/go-usersig/record"
	"github.com/goliatone/go-usersig/sigerr"
)

type issuePlan struct {
	kind        CredentialKind
	userID      string
	sdkAppID    uint32
	accountType string
	roomID      uint32
	ttl         time.Duration
}

func (s *Service) IssueUserSig(ctx context.Context, req IssueUserSigRequest) (credential string, err error) {
	startedAt := time.Now()
	fields := operationFields(CredentialKindUserSig, req.UserID, req.SDKAppID)
	defer func() {
		s.observeOperation(ctx, startedAt, "issue_user_sig", err, fields)
	}()

	credential, err = s.issue(issuePlan{
		kind:        CredentialKindUserSig,
		userID:      req.UserID,
		sdkAppID:    req.SDKAppID,
		accountType: strconv.FormatUint(uint64(req.AccountType), 10),
		ttl:         req.TTL,
	})
	if err != nil {
		err = s.mapError(err)
		return "", err
	}
	return credential, nil
}

func (s *Service) IssuePrivateMapKey(ctx context.Context, req IssuePrivateMapKeyRequest) (credential string, err error) {
	startedAt := time.Now()
	fields := operationFields(CredentialKindPrivateMapKey, req.UserID, req.SDKAppID)
	fields["room_id"] = req.RoomID
	defer func() {
		s.observeOperation(ctx, startedAt, "issue_private_map_key", err, fields)
	}()

	credential, err = s.issue(issuePlan{
		kind:        CredentialKindPrivateMapKey,
		userID:      req.UserID,
		sdkAppID:    req.SDKAppID,
		accountType: privateMapAccountType,
		roomID:      req.RoomID,
		ttl:         req.TTL,
	})
	if err != nil {
		err = s.mapError(err)
		return "", err
	}
	return credential, nil
}

func (s *Service) issue(plan issuePlan) (string, error) {
	if s.signer == nil {
		return "", sigerr.New(sigerr.TextCodeNoPrivateKey, "core: no private key configured for signing")
	}
	// The identifier is signed as raw bytes and must reach the JSON record
	// unchanged.
	if !utf8.ValidString(plan.userID) {
		err := sigerr.New(sigerr.TextCodeBadInput, "core: identifier is not valid UTF-8")
		return "", sigerr.WithMetadata(err, map[string]any{"field": "identifier"})
	}
	ttl, err := s.resolveTTL(plan.ttl)
	if err != nil {
		return "", err
	}
	issuedAt := s.now()

	fields := content.Fields{
		content.FieldAccountType: plan.accountType,
		content.FieldIdentifier:  plan.userID,
		content.FieldAppIDAt3rd:  appIDAt3rd,
		content.FieldSDKAppID:    strconv.FormatUint(uint64(plan.sdkAppID), 10),
		content.FieldExpireAfter: strconv.FormatInt(int64(ttl/time.Second), 10),
		content.FieldVersion:     s.config.Version,
		content.FieldTime:        strconv.FormatInt(issuedAt.Unix(), 10),
	}

	build := content.BuildForUserSig
	if plan.kind == CredentialKindPrivateMapKey {
		packed, err := record.Pack(plan.userID, plan.sdkAppID, plan.roomID, issuedAt, ttl)
		if err != nil {
			return "", err
		}
		fields[content.FieldUserBuf] = base64.StdEncoding.EncodeToString(packed)
		build = content.BuildForPrivateMapKey
	}

	signed, err := build(fields)
	if err != nil {
		return "", err
	}
	signature, err := s.signer.Sign([]byte(signed))
	if err != nil {
		return "", err
	}
	if len(signature) == 0 {
		return "", sigerr.New(sigerr.TextCodeCryptoBackend, "core: signer returned an empty signature")
	}
	fields[content.FieldSig] = base64.StdEncoding.EncodeToString(signature)

	payload, err := encodePayload(fields)
	if err != nil {
		return "", err
	}
	return codec.Encode(payload)
}

// resolveTTL applies the configured default to a zero TTL. TTLs are carried
// in whole seconds.
func (s *Service) resolveTTL(ttl time.Duration) (time.Duration, error) {
	switch {
	case ttl < 0:
		return 0, sigerr.New(sigerr.TextCodeBadInput, "core: ttl must not be negative")
	case ttl == 0:
		return time.Duration(s.config.DefaultExpireSeconds) * time.Second, nil
	case ttl < time.Second:
		return 0, sigerr.New(sigerr.TextCodeBadInput, "core: ttl must be at least one second")
	default:
		return ttl.Truncate(time.Second), nil
	}
}
