package usersig

import (
	"context"
	"testing"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-usersig/adapters/gocommand"
	usersigcommand "github.com/goliatone/go-usersig/command"
	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/keys/keystest"
	usersigquery "github.com/goliatone/go-usersig/query"
	"github.com/goliatone/go-usersig/sigerr"
)

func newPEMService(t *testing.T) *Service {
	t.Helper()
	privatePEM, publicPEM := keystest.PEM(t, keys.AlgorithmES256Secp256k1)
	material, err := keys.NewMaterial(privatePEM, publicPEM)
	if err != nil {
		t.Fatalf("new material: %v", err)
	}
	svc, err := NewService(DefaultConfig(), WithKeyMaterial(material))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewFacade_WiresCommandsAndQueries(t *testing.T) {
	facade, err := NewFacade(newPEMService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	commands := facade.Commands()
	if commands.IssueUserSig == nil || commands.IssuePrivateMapKey == nil {
		t.Fatalf("expected command handlers to be wired")
	}
	queries := facade.Queries()
	if queries.VerifyUserSig == nil || queries.VerifyPrivateMapKey == nil {
		t.Fatalf("expected query handlers to be wired")
	}
	if facade.Service() == nil {
		t.Fatalf("expected service accessor")
	}
}

func TestFacade_IssueAndVerifyUserSig(t *testing.T) {
	facade, err := NewFacade(newPEMService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	collector := gocmd.NewResult[usersigcommand.IssuedCredential]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	if err := facade.Commands().IssueUserSig.Execute(ctx, usersigcommand.IssueUserSigMessage{
		Request: IssueUserSigRequest{UserID: "webrtc98", SDKAppID: 1400037025},
	}); err != nil {
		t.Fatalf("execute issue user sig: %v", err)
	}
	issued, ok := collector.Load()
	if !ok {
		t.Fatalf("expected issued credential")
	}

	result, err := facade.Queries().VerifyUserSig.Query(context.Background(), usersigquery.VerifyUserSigMessage{
		Request: VerifyRequest{Credential: issued.Credential, UserID: "webrtc98", SDKAppID: 1400037025},
	})
	if err != nil {
		t.Fatalf("query verify user sig: %v", err)
	}
	if result.ExpireAfter != DefaultExpireAfter || result.Version != ProtocolVersion {
		t.Fatalf("unexpected verify result: %#v", result)
	}

	_, err = facade.Queries().VerifyPrivateMapKey.Query(context.Background(), usersigquery.VerifyPrivateMapKeyMessage{
		Request: VerifyRequest{Credential: issued.Credential, UserID: "webrtc98", SDKAppID: 1400037025},
	})
	if !sigerr.Unauthorized(err) {
		t.Fatalf("expected user sig to fail private map key verification, got %v", err)
	}
}

func TestFacade_RegisterDispatchesThroughGoCommand(t *testing.T) {
	facade, err := NewFacade(newPEMService(t))
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}
	adapter := gocommand.NewRegistryAdapter(nil)
	subscriptions, err := facade.Register(adapter)
	if err != nil {
		t.Fatalf("register facade: %v", err)
	}
	t.Cleanup(func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	})
	if len(subscriptions) != 4 {
		t.Fatalf("expected four subscriptions, got %d", len(subscriptions))
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	collector := gocmd.NewResult[usersigcommand.IssuedCredential]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	if err := gocommand.Dispatch(ctx, usersigcommand.IssueUserSigMessage{
		Request: IssueUserSigRequest{UserID: "alice", SDKAppID: 42},
	}); err != nil {
		t.Fatalf("dispatch issue: %v", err)
	}
	issued, ok := collector.Load()
	if !ok {
		t.Fatalf("expected issued credential")
	}

	result, err := gocommand.Query[usersigquery.VerifyUserSigMessage, VerifyResult](
		context.Background(),
		usersigquery.VerifyUserSigMessage{Request: VerifyRequest{Credential: issued.Credential, UserID: "alice", SDKAppID: 42}},
	)
	if err != nil {
		t.Fatalf("query verify: %v", err)
	}
	if result.Identifier != "alice" || result.SDKAppID != 42 {
		t.Fatalf("unexpected verify result: %#v", result)
	}
}

func TestNewFacade_RequiresService(t *testing.T) {
	facade, err := NewFacade(nil)
	if err == nil {
		t.Fatalf("expected nil service error")
	}
	if facade != nil {
		t.Fatalf("expected nil facade on error")
	}

	var missing *Facade
	if _, err := missing.Register(gocommand.NewRegistryAdapter(nil)); err == nil {
		t.Fatalf("expected nil facade registration to fail")
	}
}
