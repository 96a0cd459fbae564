package command

import (
	"time"

	"github.com/goliatone/go-usersig/core"
)

const (
	TypeIssueUserSig       = "usersig.command.user_sig.issue"
	TypeIssuePrivateMapKey = "usersig.command.private_map_key.issue"
)

type IssueUserSigMessage struct {
	Request core.IssueUserSigRequest
}

func (IssueUserSigMessage) Type() string { return TypeIssueUserSig }

func (m IssueUserSigMessage) Validate() error {
	return validateTTL(m.Request.TTL)
}

type IssuePrivateMapKeyMessage struct {
	Request core.IssuePrivateMapKeyRequest
}

func (IssuePrivateMapKeyMessage) Type() string { return TypeIssuePrivateMapKey }

func (m IssuePrivateMapKeyMessage) Validate() error {
	return validateTTL(m.Request.TTL)
}

// validateTTL accepts zero, which selects the service default.
func validateTTL(ttl time.Duration) error {
	if ttl < 0 {
		return commandValidationError("ttl", "must not be negative")
	}
	if ttl > 0 && ttl < time.Second {
		return commandValidationError("ttl", "must be at least one second")
	}
	return nil
}
