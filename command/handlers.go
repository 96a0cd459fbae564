package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-usersig/core"
)

// IssuedCredential is stored in the go-command result collector of the
// request context after a successful issue command.
type IssuedCredential struct {
	Kind       core.CredentialKind
	Identifier string
	SDKAppID   uint32
	Credential string
}

type IssueUserSigCommand struct {
	service core.Issuer
}

func NewIssueUserSigCommand(service core.Issuer) *IssueUserSigCommand {
	return &IssueUserSigCommand{service: service}
}

func (c *IssueUserSigCommand) Execute(ctx context.Context, msg IssueUserSigMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: user sig issuer is required")
	}
	credential, err := c.service.IssueUserSig(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, IssuedCredential{
		Kind:       core.CredentialKindUserSig,
		Identifier: msg.Request.UserID,
		SDKAppID:   msg.Request.SDKAppID,
		Credential: credential,
	})
	return nil
}

type IssuePrivateMapKeyCommand struct {
	service core.Issuer
}

func NewIssuePrivateMapKeyCommand(service core.Issuer) *IssuePrivateMapKeyCommand {
	return &IssuePrivateMapKeyCommand{service: service}
}

func (c *IssuePrivateMapKeyCommand) Execute(ctx context.Context, msg IssuePrivateMapKeyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: private map key issuer is required")
	}
	credential, err := c.service.IssuePrivateMapKey(ctx, msg.Request)
	if err != nil {
		return err
	}
	storeResult(ctx, IssuedCredential{
		Kind:       core.CredentialKindPrivateMapKey,
		Identifier: msg.Request.UserID,
		SDKAppID:   msg.Request.SDKAppID,
		Credential: credential,
	})
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
