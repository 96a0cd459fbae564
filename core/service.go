package core

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-usersig/keys"
)

// Service issues and verifies credentials. It holds only immutable key
// material and configuration, so one instance is safe for concurrent use.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	signer          keys.Signer
	verifier        keys.Verifier
	clock           Clock
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Signer          keys.Signer
	Verifier        keys.Verifier
	Clock           Clock
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("usersig", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if builder.loggerProvider != nil {
		if named := builder.loggerProvider.GetLogger("usersig"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	if provider == nil {
		provider = glog.ProviderFromLogger(logger)
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.clock == nil {
		builder.clock = systemClock
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		signer:          builder.material.Signer,
		verifier:        builder.material.ResolveVerifier(),
		clock:           builder.clock,
	}, nil
}

func Setup(cfg Config, opts ...Option) (*Service, error) {
	return NewService(cfg, opts...)
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		Signer:          s.signer,
		Verifier:        s.verifier,
		Clock:           s.clock,
	}
}

func (s *Service) CanIssue() bool {
	return s != nil && s.signer != nil
}

func (s *Service) CanVerify() bool {
	return s != nil && s.verifier != nil
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}
