package codec

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/registry"
	"github.com/zeusync/scenegraph/internal/core/resolver"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

// Decoder rebuilds scene graphs from envelopes. A Decoder may be reused and
// shared between goroutines; every call uses its own resolver.
type Decoder struct {
	opts     options
	detect   bool
	registry *registry.Registry
}

func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	o.format = nil
	for _, opt := range opts {
		opt(&o)
	}
	d := &Decoder{opts: o, registry: o.registry}
	if d.opts.format == nil {
		d.detect = true
	}
	if d.registry == nil {
		d.registry = registry.Default()
	}
	return d
}

// Stats summarizes one decode.
type Stats struct {
	Records int
	Skipped int
	Roots   int
}

// Peek reads the envelope header without decoding any record. Callers use
// it to dispatch on Kind.
func (d *Decoder) Peek(data []byte) (Header, error) {
	format := d.formatFor(data)
	var h Header
	if err := format.Unmarshal(data, &h); err != nil {
		return Header{}, &ParseError{Format: format.Name(), Err: err}
	}
	if h.Kind == "" {
		h.Kind = KindScene
	}
	return h, nil
}

// Graph is the result of Decode. Exactly one of Scene and Root is set,
// according to Kind.
type Graph struct {
	Kind  string
	Scene *scene.Scene
	Root  *scene.Entity
}

// Decode dispatches on the envelope kind.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*Graph, error) {
	h, err := d.Peek(data)
	if err != nil {
		return nil, err
	}
	switch h.Kind {
	case KindScene:
		s, err := d.DecodeScene(ctx, data)
		if err != nil {
			return nil, err
		}
		return &Graph{Kind: KindScene, Scene: s}, nil
	case KindEntity:
		root, err := d.DecodeEntity(ctx, data)
		if err != nil {
			return nil, err
		}
		return &Graph{Kind: KindEntity, Root: root}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrKindMismatch, h.Kind)
	}
}

// DecodeScene rebuilds a scene. On error no scene is returned and nothing
// decoded so far is reachable.
func (d *Decoder) DecodeScene(ctx context.Context, data []byte) (*scene.Scene, error) {
	s, _, err := d.DecodeSceneStats(ctx, data)
	return s, err
}

// DecodeSceneStats is DecodeScene reporting what was decoded.
func (d *Decoder) DecodeSceneStats(ctx context.Context, data []byte) (*scene.Scene, Stats, error) {
	format := d.formatFor(data)
	_, span := d.opts.tracer.Start(ctx, "codec.DecodeScene",
		trace.WithAttributes(attribute.String("codec.format", format.Name())))
	defer span.End()

	var env SceneEnvelope
	if err := d.open(format, data, KindScene, &env); err != nil {
		return nil, Stats{}, d.fail(span, err)
	}

	refs, stats, err := d.materialize(env.Records)
	if err != nil {
		return nil, Stats{}, d.fail(span, err)
	}
	roots, err := d.roots(refs, env.RootIDs)
	if err != nil {
		return nil, Stats{}, d.fail(span, err)
	}
	stats.Roots = len(roots)

	s := scene.NewScene(env.Name, scene.WithPath(env.Path), scene.WithBuildIndex(env.BuildIndex))
	if d.opts.notifier != nil {
		s.SetNotifier(d.opts.notifier)
	}
	s.SetRoots(roots)
	d.activate(env.Records, refs)

	d.succeed(span, "scene decoded", stats)
	return s, stats, nil
}

// DecodeEntity rebuilds a single entity subtree.
func (d *Decoder) DecodeEntity(ctx context.Context, data []byte) (*scene.Entity, error) {
	format := d.formatFor(data)
	_, span := d.opts.tracer.Start(ctx, "codec.DecodeEntity",
		trace.WithAttributes(attribute.String("codec.format", format.Name())))
	defer span.End()

	var env EntityEnvelope
	if err := d.open(format, data, KindEntity, &env); err != nil {
		return nil, d.fail(span, err)
	}

	refs, stats, err := d.materialize(env.Records)
	if err != nil {
		return nil, d.fail(span, err)
	}
	roots, err := d.roots(refs, []string{env.RootID})
	if err != nil {
		return nil, d.fail(span, err)
	}
	root := roots[0]
	d.activate(env.Records, refs)

	stats.Roots = 1
	d.succeed(span, "entity decoded", stats)
	return root, nil
}

// open parses the header, gates on version and kind, then parses the full
// envelope into dst.
func (d *Decoder) open(format Format, data []byte, kind string, dst any) error {
	var h Header
	if err := format.Unmarshal(data, &h); err != nil {
		return &ParseError{Format: format.Name(), Err: err}
	}
	if h.Version != SupportedVersion {
		return &VersionMismatchError{Got: string(h.Version), Want: string(SupportedVersion)}
	}
	if h.Kind == "" {
		h.Kind = KindScene
	}
	if h.Kind != kind {
		return fmt.Errorf("%w: got %q, want %q", ErrKindMismatch, h.Kind, kind)
	}
	if err := format.Unmarshal(data, dst); err != nil {
		return &ParseError{Format: format.Name(), Err: err}
	}
	return nil
}

// materialize runs both phases over records: construct and register every
// object while queueing its references, then resolve the queue.
func (d *Decoder) materialize(records []*record.Record) (*resolver.Resolver, Stats, error) {
	refs := resolver.New(resolver.WithLogger(d.opts.logger))
	stats := Stats{}

	for i, rec := range records {
		if rec == nil {
			return nil, Stats{}, &RecordError{Index: i, Err: record.ErrMalformed}
		}
		id, err := rec.Identity()
		if err != nil {
			return nil, Stats{}, &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: err}
		}

		obj, err := d.registry.Construct(rec.Type)
		if err != nil {
			var unknown *registry.UnknownTypeError
			if errors.As(err, &unknown) && d.opts.policy == SkipUnknownType {
				d.opts.logger.Warn("skipping record of unknown type",
					log.String("type", rec.Type),
					log.String("id", rec.ID),
				)
				refs.Omit(id)
				stats.Skipped++
				continue
			}
			if unknown != nil {
				unknown.ID = rec.ID
				return nil, Stats{}, unknown
			}
			return nil, Stats{}, &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: err}
		}

		obj.Identity().AdoptID(id)
		obj.SetName(rec.Name)
		if err := refs.Register(id, obj); err != nil {
			return nil, Stats{}, &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: err}
		}
		if err := obj.Decode(rec, refs); err != nil {
			return nil, Stats{}, &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: err}
		}
		stats.Records++
	}

	if err := refs.Resolve(); err != nil {
		return nil, Stats{}, err
	}
	if err := validate(records, refs); err != nil {
		return nil, Stats{}, err
	}
	return refs, stats, nil
}

// validate checks that every decoded component is listed by the entity it
// names, and that the decoded transforms form a forest whose parent and
// children links agree.
func validate(records []*record.Record, refs *resolver.Resolver) error {
	for i, rec := range records {
		if c, ok := lookup[scene.Component](rec, refs); ok {
			if owner := c.Entity(); owner != nil && !containsComponent(owner.Components(), c) {
				return &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: scene.ErrOwnerMismatch}
			}
		}
		t, ok := lookup[*scene.Transform](rec, refs)
		if !ok {
			continue
		}
		steps := 0
		for p := t.Parent(); p != nil; p = p.Parent() {
			if p == t || steps > len(records) {
				return &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: scene.ErrHierarchyCycle}
			}
			steps++
		}
		for _, child := range t.Children() {
			if child.Parent() != t {
				return &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: ErrHierarchyMismatch}
			}
		}
		if p := t.Parent(); p != nil && !containsTransform(p.Children(), t) {
			return &RecordError{Index: i, ID: rec.ID, Type: rec.Type, Err: ErrHierarchyMismatch}
		}
	}
	return nil
}

func containsComponent(list []scene.Component, c scene.Component) bool {
	for _, existing := range list {
		if existing == c {
			return true
		}
	}
	return false
}

func containsTransform(list []*scene.Transform, t *scene.Transform) bool {
	for _, c := range list {
		if c == t {
			return true
		}
	}
	return false
}

// lookup returns the decoded object of rec when it has type T.
func lookup[T scene.Object](rec *record.Record, refs *resolver.Resolver) (T, bool) {
	var zero T
	id, err := rec.Identity()
	if err != nil {
		return zero, false
	}
	obj, ok := refs.Lookup(id)
	if !ok {
		return zero, false
	}
	v, ok := obj.(T)
	return v, ok
}

func (d *Decoder) roots(refs *resolver.Resolver, ids []string) ([]*scene.Entity, error) {
	roots := make([]*scene.Entity, 0, len(ids))
	for _, text := range ids {
		id, err := identity.Parse(text)
		if err != nil {
			return nil, &RootError{ID: text, Err: err}
		}
		obj, ok := refs.Lookup(id)
		if !ok {
			return nil, &RootError{ID: text, Err: resolver.ErrDanglingReference}
		}
		e, ok := obj.(*scene.Entity)
		if !ok {
			return nil, &RootError{ID: text, Err: fmt.Errorf("%T is not an entity", obj)}
		}
		if e.Parent() != nil {
			return nil, &RootError{ID: text, Err: scene.ErrAlreadyAttached}
		}
		roots = append(roots, e)
	}
	return roots, nil
}

// activate attaches the notifier to every decoded hierarchy and refreshes
// its enabled state once the graph is fully wired.
func (d *Decoder) activate(records []*record.Record, refs *resolver.Resolver) {
	for _, rec := range records {
		e, ok := lookup[*scene.Entity](rec, refs)
		if !ok || e.Parent() != nil {
			continue
		}
		if d.opts.notifier != nil {
			e.SetNotifier(d.opts.notifier)
		}
		e.Refresh()
	}
}

func (d *Decoder) formatFor(data []byte) Format {
	if d.detect {
		return DetectFormat(data)
	}
	return d.opts.format
}

func (d *Decoder) succeed(span trace.Span, msg string, stats Stats) {
	span.SetAttributes(
		attribute.Int("codec.records", stats.Records),
		attribute.Int("codec.skipped", stats.Skipped),
		attribute.Int("codec.roots", stats.Roots),
	)
	span.SetStatus(codes.Ok, "")
	d.opts.logger.Debug(msg,
		log.Int("records", stats.Records),
		log.Int("skipped", stats.Skipped),
		log.Int("roots", stats.Roots),
	)
}

func (d *Decoder) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
