package core

import (
	"context"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-usersig/record"
	"github.com/goliatone/go-usersig/sigerr"
)

const (
	// ProtocolVersion is written to TLS.version on every credential.
	ProtocolVersion = "201512300000"
	// DefaultExpireAfter applies when a request carries no TTL.
	DefaultExpireAfter = 300 * time.Second

	appIDAt3rd            = "0"
	privateMapAccountType = "0"
)

type CredentialKind string

const (
	CredentialKindUserSig       CredentialKind = "user_sig"
	CredentialKindPrivateMapKey CredentialKind = "private_map_key"
)

func (k CredentialKind) Validate() error {
	switch k {
	case CredentialKindUserSig, CredentialKindPrivateMapKey:
		return nil
	default:
		return sigerr.New(sigerr.TextCodeBadInput, "core: unknown credential kind "+strings.TrimSpace(string(k)))
	}
}

type IssueUserSigRequest struct {
	UserID      string
	SDKAppID    uint32
	AccountType uint32
	// TTL of zero selects the configured default.
	TTL time.Duration
}

type IssuePrivateMapKeyRequest struct {
	UserID   string
	SDKAppID uint32
	RoomID   uint32
	TTL      time.Duration
}

type VerifyRequest struct {
	Credential string
	UserID     string
	SDKAppID   uint32
}

// VerifyResult carries the fields of a credential whose signature and
// identity checks passed. Expiry is reported, not enforced.
type VerifyResult struct {
	Kind        CredentialKind
	Identifier  string
	SDKAppID    uint32
	AccountType string
	Version     string
	IssuedAt    time.Time
	ExpireAfter time.Duration
	// UserBuf and Record are set for PrivateMapKey only.
	UserBuf []byte
	Record  *record.AuthorizationRecord
}

func (r VerifyResult) ExpiresAt() time.Time {
	return r.IssuedAt.Add(r.ExpireAfter)
}

// Expired reports whether the credential's validity window ended before now.
func (r VerifyResult) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt())
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type Issuer interface {
	IssueUserSig(ctx context.Context, req IssueUserSigRequest) (string, error)
	IssuePrivateMapKey(ctx context.Context, req IssuePrivateMapKeyRequest) (string, error)
}

type Verifier interface {
	VerifyUserSig(ctx context.Context, req VerifyRequest) (VerifyResult, error)
	VerifyPrivateMapKey(ctx context.Context, req VerifyRequest) (VerifyResult, error)
	Verify(ctx context.Context, kind CredentialKind, req VerifyRequest) (VerifyResult, error)
}

type CredentialService interface {
	Issuer
	Verifier
}
