package core

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	opts "github.com/goliatone/go-options"

	"github.com/goliatone/go-usersig/keys"
	"github.com/goliatone/go-usersig/sigerr"
)

type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

type ErrorMapper func(err error) *goerrors.Error

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

type Clock func() time.Time

type serviceBuilder struct {
	runtimeConfig   Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	material        keys.Material
	clock           Clock
}

type Option func(*serviceBuilder)

func WithLogger(logger Logger) Option {
	return func(b *serviceBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *serviceBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *serviceBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithErrorFactory(factory ErrorFactory) Option {
	return func(b *serviceBuilder) {
		b.errorFactory = factory
	}
}

func WithErrorMapper(mapper ErrorMapper) Option {
	return func(b *serviceBuilder) {
		b.errorMapper = mapper
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *serviceBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *serviceBuilder) {
		b.optionsResolver = resolver
	}
}

// WithKeyMaterial sets both capabilities at once.
func WithKeyMaterial(material keys.Material) Option {
	return func(b *serviceBuilder) {
		b.material = material
	}
}

func WithSigner(signer keys.Signer) Option {
	return func(b *serviceBuilder) {
		b.material.Signer = signer
	}
}

func WithVerifier(verifier keys.Verifier) Option {
	return func(b *serviceBuilder) {
		b.material.Verifier = verifier
	}
}

func WithClock(clock Clock) Option {
	return func(b *serviceBuilder) {
		b.clock = clock
	}
}

func defaultServiceBuilder(runtime Config) serviceBuilder {
	return serviceBuilder{
		runtimeConfig:   runtime,
		metricsRecorder: NopMetricsRecorder{},
		errorFactory:    goerrors.New,
		errorMapper:     defaultErrorMapper,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
		clock:           systemClock,
	}
}

func systemClock() time.Time {
	return time.Now().UTC()
}

func defaultErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	return serviceErrorMapper(err)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// NewStaticRawConfigLoader serves a fixed map, e.g. one decoded from a file.
func NewStaticRawConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GoOptionsResolver layers defaults < loaded config < runtime config.
type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, sigerr.Wrap(err, sigerr.TextCodeInternal, "core: options stack build failed")
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, sigerr.Wrap(err, sigerr.TextCodeInternal, "core: options merge failed")
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.ServiceName) != "" {
		layer["service_name"] = cfg.ServiceName
	}
	if includeZero || strings.TrimSpace(cfg.Version) != "" {
		layer["version"] = cfg.Version
	}
	if includeZero || cfg.DefaultExpireSeconds != 0 {
		layer["default_expire_seconds"] = cfg.DefaultExpireSeconds
	}
	if includeZero || cfg.MaxPayloadBytes != 0 {
		layer["max_payload_bytes"] = cfg.MaxPayloadBytes
	}
	return layer
}
