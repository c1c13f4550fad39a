package codec

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/registry"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

// UnknownTypePolicy selects what Decoder does with a record whose type tag
// has no registered factory.
type UnknownTypePolicy int

const (
	// FailOnUnknownType aborts the decode.
	FailOnUnknownType UnknownTypePolicy = iota
	// SkipUnknownType drops the record with a warning. References to it
	// resolve to absent.
	SkipUnknownType
)

func (p UnknownTypePolicy) String() string {
	switch p {
	case SkipUnknownType:
		return "skip"
	default:
		return "fail"
	}
}

// ParseUnknownTypePolicy reads "fail" or "skip".
func ParseUnknownTypePolicy(s string) (UnknownTypePolicy, error) {
	switch strings.ToLower(s) {
	case "fail", "":
		return FailOnUnknownType, nil
	case "skip":
		return SkipUnknownType, nil
	default:
		return FailOnUnknownType, fmt.Errorf("codec: unknown type policy %q", s)
	}
}

type options struct {
	format   Format
	registry *registry.Registry
	policy   UnknownTypePolicy
	notifier scene.Notifier
	logger   log.Log
	tracer   trace.Tracer
}

func defaultOptions() options {
	return options{
		format: JSON,
		policy: FailOnUnknownType,
		logger: log.NewNop(),
		tracer: noop.NewTracerProvider().Tracer("scenegraph/codec"),
	}
}

// Option configures an Encoder or a Decoder. Options that only make sense
// on one side are ignored by the other.
type Option func(*options)

// WithFormat selects the output format of an Encoder. A Decoder detects the
// input format unless one is given.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f != nil {
			o.format = f
		}
	}
}

// WithRegistry selects the type registry used to construct records.
// registry.Default() is used otherwise.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func WithUnknownTypePolicy(p UnknownTypePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithNotifier attaches n to every decoded root before the enabled state is
// refreshed, so the initial enable notifications reach it.
func WithNotifier(n scene.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

func WithLogger(l log.Log) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}
