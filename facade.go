package usersig

import (
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-usersig/adapters/gocommand"
	usersigcommand "github.com/goliatone/go-usersig/command"
	"github.com/goliatone/go-usersig/core"
	usersigquery "github.com/goliatone/go-usersig/query"
)

type Commands struct {
	IssueUserSig       *usersigcommand.IssueUserSigCommand
	IssuePrivateMapKey *usersigcommand.IssuePrivateMapKeyCommand
}

type Queries struct {
	VerifyUserSig       *usersigquery.VerifyUserSigQuery
	VerifyPrivateMapKey *usersigquery.VerifyPrivateMapKeyQuery
}

type Facade struct {
	service  core.CredentialService
	commands Commands
	queries  Queries
}

func NewFacade(service core.CredentialService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("usersig: credential service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			IssueUserSig:       usersigcommand.NewIssueUserSigCommand(service),
			IssuePrivateMapKey: usersigcommand.NewIssuePrivateMapKeyCommand(service),
		},
		queries: Queries{
			VerifyUserSig:       usersigquery.NewVerifyUserSigQuery(service),
			VerifyPrivateMapKey: usersigquery.NewVerifyPrivateMapKeyQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() core.CredentialService {
	if f == nil {
		return nil
	}
	return f.service
}

// Register subscribes every facade handler on the go-command dispatcher and
// records it in the adapter's registry. Callers own the returned
// subscriptions.
func (f *Facade) Register(
	adapter *gocommand.RegistryAdapter,
	runnerOpts ...runner.Option,
) ([]commanddispatcher.Subscription, error) {
	if f == nil {
		return nil, fmt.Errorf("usersig: facade is required")
	}
	return gocommand.RegisterCredentialHandlers(adapter, gocommand.CredentialHandlers{
		IssueUserSig:        f.commands.IssueUserSig,
		IssuePrivateMapKey:  f.commands.IssuePrivateMapKey,
		VerifyUserSig:       f.queries.VerifyUserSig,
		VerifyPrivateMapKey: f.queries.VerifyPrivateMapKey,
	}, runnerOpts...)
}
