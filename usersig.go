// Package usersig issues and verifies UserSig and PrivateMapKey credentials.
package usersig

import (
	"github.com/goliatone/go-usersig/core"
	"github.com/goliatone/go-usersig/record"
)

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type CredentialKind = core.CredentialKind

type IssueUserSigRequest = core.IssueUserSigRequest

type IssuePrivateMapKeyRequest = core.IssuePrivateMapKeyRequest

type VerifyRequest = core.VerifyRequest

type VerifyResult = core.VerifyResult

type AuthorizationRecord = record.AuthorizationRecord

type Logger = core.Logger

type LoggerProvider = core.LoggerProvider

type MetricsRecorder = core.MetricsRecorder

const (
	ProtocolVersion    = core.ProtocolVersion
	DefaultExpireAfter = core.DefaultExpireAfter

	CredentialKindUserSig       = core.CredentialKindUserSig
	CredentialKindPrivateMapKey = core.CredentialKindPrivateMapKey
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithKeyMaterial     = core.WithKeyMaterial
	WithSigner          = core.WithSigner
	WithVerifier        = core.WithVerifier
	WithClock           = core.WithClock
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return core.Setup(cfg, opts...)
}
