package query

import (
	"context"

	"github.com/goliatone/go-usersig/core"
)

type VerifyUserSigQuery struct {
	verifier core.Verifier
}

func NewVerifyUserSigQuery(verifier core.Verifier) *VerifyUserSigQuery {
	return &VerifyUserSigQuery{verifier: verifier}
}

func (q *VerifyUserSigQuery) Query(ctx context.Context, msg VerifyUserSigMessage) (core.VerifyResult, error) {
	if q == nil || q.verifier == nil {
		return core.VerifyResult{}, queryDependencyError("query: user sig verifier is required")
	}
	return q.verifier.VerifyUserSig(ctx, msg.Request)
}

type VerifyPrivateMapKeyQuery struct {
	verifier core.Verifier
}

func NewVerifyPrivateMapKeyQuery(verifier core.Verifier) *VerifyPrivateMapKeyQuery {
	return &VerifyPrivateMapKeyQuery{verifier: verifier}
}

func (q *VerifyPrivateMapKeyQuery) Query(
	ctx context.Context,
	msg VerifyPrivateMapKeyMessage,
) (core.VerifyResult, error) {
	if q == nil || q.verifier == nil {
		return core.VerifyResult{}, queryDependencyError("query: private map key verifier is required")
	}
	return q.verifier.VerifyPrivateMapKey(ctx, msg.Request)
}
