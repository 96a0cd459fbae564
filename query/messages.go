package query

import (
	"strings"

	"github.com/goliatone/go-usersig/core"
)

const (
	TypeVerifyUserSig       = "usersig.query.user_sig.verify"
	TypeVerifyPrivateMapKey = "usersig.query.private_map_key.verify"
)

type VerifyUserSigMessage struct {
	Request core.VerifyRequest
}

func (VerifyUserSigMessage) Type() string { return TypeVerifyUserSig }

func (m VerifyUserSigMessage) Validate() error {
	return validateVerifyRequest(m.Request)
}

type VerifyPrivateMapKeyMessage struct {
	Request core.VerifyRequest
}

func (VerifyPrivateMapKeyMessage) Type() string { return TypeVerifyPrivateMapKey }

func (m VerifyPrivateMapKeyMessage) Validate() error {
	return validateVerifyRequest(m.Request)
}

// The user id is not checked here; an empty identifier is a valid credential
// subject.
func validateVerifyRequest(req core.VerifyRequest) error {
	if strings.TrimSpace(req.Credential) == "" {
		return queryValidationError("credential", "is required")
	}
	return nil
}
