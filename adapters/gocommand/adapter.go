package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	usersigcommand "github.com/goliatone/go-usersig/command"
	"github.com/goliatone/go-usersig/core"
	usersigquery "github.com/goliatone/go-usersig/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeCommandFunc[T any](handler command.CommandFunc[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(handler, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func SubscribeQueryFunc[T any, R any](qry command.QueryFunc[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// CredentialHandlers groups the issue commands and verify queries a host
// exposes through the dispatcher.
type CredentialHandlers struct {
	IssueUserSig        command.Commander[usersigcommand.IssueUserSigMessage]
	IssuePrivateMapKey  command.Commander[usersigcommand.IssuePrivateMapKeyMessage]
	VerifyUserSig       command.Querier[usersigquery.VerifyUserSigMessage, core.VerifyResult]
	VerifyPrivateMapKey command.Querier[usersigquery.VerifyPrivateMapKeyMessage, core.VerifyResult]
}

// RegisterCredentialHandlers registers and subscribes every non-nil handler.
// On failure the subscriptions made so far are released.
func RegisterCredentialHandlers(
	adapter *RegistryAdapter,
	handlers CredentialHandlers,
	runnerOpts ...runner.Option,
) ([]commanddispatcher.Subscription, error) {
	subscriptions := make([]commanddispatcher.Subscription, 0, 4)
	release := func() {
		for _, subscription := range subscriptions {
			subscription.Unsubscribe()
		}
	}
	keep := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			release()
			return err
		}
		if subscription != nil {
			subscriptions = append(subscriptions, subscription)
		}
		return nil
	}

	if handlers.IssueUserSig != nil {
		if err := keep(RegisterAndSubscribe(adapter, handlers.IssueUserSig, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.IssuePrivateMapKey != nil {
		if err := keep(RegisterAndSubscribe(adapter, handlers.IssuePrivateMapKey, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.VerifyUserSig != nil {
		if err := keep(RegisterAndSubscribeQuery(adapter, handlers.VerifyUserSig, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if handlers.VerifyPrivateMapKey != nil {
		if err := keep(RegisterAndSubscribeQuery(adapter, handlers.VerifyPrivateMapKey, runnerOpts...)); err != nil {
			return nil, err
		}
	}
	if len(subscriptions) == 0 {
		return nil, fmt.Errorf("gocommand: no credential handlers to register")
	}
	return subscriptions, nil
}
