package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/scenegraph/internal/config"
	"github.com/zeusync/scenegraph/internal/core/codec"
	"github.com/zeusync/scenegraph/internal/core/events/bus"
	"github.com/zeusync/scenegraph/internal/core/events/lifecycle"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/registry"
	"github.com/zeusync/scenegraph/internal/tracing"
)

// Toolkit bundles what a command needs to read and write scene files.
type Toolkit struct {
	Config   config.Config
	Logger   *log.Logger
	Tracing  *tracing.Provider
	Registry *registry.Registry
	Events   bus.EventBus
	Notifier *lifecycle.Publisher
	Encoder  *codec.Encoder
	Decoder  *codec.Decoder
}

// ProviderSet builds a Toolkit from a Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideTracing,
	ProvideRegistry,
	bus.New,
	ProvideNotifier,
	ProvideEncoder,
	ProvideDecoder,
	wire.Struct(new(Toolkit), "*"),
)

func ProvideLogger(cfg config.Config) (*log.Logger, func(), error) {
	l, err := log.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { _ = l.Sync() }, nil
}

func ProvideTracing(cfg config.Config) (*tracing.Provider, func(), error) {
	p, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Shutdown(context.Background()) }, nil
}

// ProvideRegistry returns the process-wide registry, where component
// packages register their types from init.
func ProvideRegistry(logger *log.Logger) *registry.Registry {
	r := registry.Default()
	logger.Debug("type registry ready", log.Int("types", len(r.Tags())))
	return r
}

// ProvideNotifier publishes the lifecycle transitions of decoded graphs on
// the event bus.
func ProvideNotifier(events bus.EventBus, logger *log.Logger) *lifecycle.Publisher {
	return lifecycle.NewPublisher(events, "scenectl", logger.Named("lifecycle"))
}

func ProvideEncoder(cfg config.Config, logger *log.Logger, tp *tracing.Provider) (*codec.Encoder, error) {
	format, err := cfg.Codec.OutputFormat()
	if err != nil {
		return nil, err
	}
	return codec.NewEncoder(
		codec.WithFormat(format),
		codec.WithLogger(logger.Named("encoder")),
		codec.WithTracer(tp.Tracer()),
	), nil
}

func ProvideDecoder(cfg config.Config, reg *registry.Registry, n *lifecycle.Publisher, logger *log.Logger, tp *tracing.Provider) (*codec.Decoder, error) {
	policy, err := cfg.Codec.Policy()
	if err != nil {
		return nil, err
	}
	return codec.NewDecoder(
		codec.WithRegistry(reg),
		codec.WithUnknownTypePolicy(policy),
		codec.WithNotifier(n),
		codec.WithLogger(logger.Named("decoder")),
		codec.WithTracer(tp.Tracer()),
	), nil
}
