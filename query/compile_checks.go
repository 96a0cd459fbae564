package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-usersig/core"
)

var (
	_ gocmd.Querier[VerifyUserSigMessage, core.VerifyResult]       = (*VerifyUserSigQuery)(nil)
	_ gocmd.Querier[VerifyPrivateMapKeyMessage, core.VerifyResult] = (*VerifyPrivateMapKeyQuery)(nil)
)
