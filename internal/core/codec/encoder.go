package codec

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zeusync/scenegraph/internal/core/identity"
	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/record"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

// Encoder flattens live scene graphs into envelopes. It holds no state
// between calls and is safe for concurrent use on distinct graphs.
type Encoder struct {
	opts options
}

func NewEncoder(opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{opts: o}
}

// Format returns the format used by Encode* methods.
func (e *Encoder) Format() Format {
	return e.opts.format
}

// Records flattens the subtrees rooted at roots, in order, followed by
// every object they reference.
func (e *Encoder) Records(roots ...*scene.Entity) ([]*record.Record, error) {
	w := newWalker()
	for _, root := range roots {
		if err := w.entity(root); err != nil {
			return nil, err
		}
	}
	if err := w.drain(); err != nil {
		return nil, err
	}
	return w.records, nil
}

// Scene builds the envelope for s. Only live roots are listed; the record
// list holds every object reachable from them.
func (e *Encoder) Scene(s *scene.Scene) (*SceneEnvelope, error) {
	roots := s.Roots()
	w := newWalker()
	rootIDs := make([]string, 0, len(roots))
	for _, root := range roots {
		rootIDs = append(rootIDs, root.ID().String())
		if err := w.entity(root); err != nil {
			return nil, err
		}
	}
	if err := w.drain(); err != nil {
		return nil, err
	}
	return &SceneEnvelope{
		Version:    SupportedVersion,
		Kind:       KindScene,
		Name:       s.Name(),
		Path:       s.Path(),
		BuildIndex: s.BuildIndex(),
		RootIDs:    rootIDs,
		Records:    w.records,
	}, nil
}

// Entity builds the envelope for the subtree rooted at root. The root's
// parent link is cut so the envelope stands on its own. Ancestors referenced
// from inside the subtree are still written, detached from the root.
func (e *Encoder) Entity(root *scene.Entity) (*EntityEnvelope, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if !root.IsLive() {
		return nil, fmt.Errorf("%w: %s", scene.ErrDestroyed, root.ID())
	}
	w := newWalker()
	w.cut = root.Transform()
	if err := w.entity(root); err != nil {
		return nil, err
	}
	if err := w.drain(); err != nil {
		return nil, err
	}
	return &EntityEnvelope{
		Version: SupportedVersion,
		Kind:    KindEntity,
		RootID:  root.ID().String(),
		Records: w.records,
	}, nil
}

// EncodeScene renders s in the configured format.
func (e *Encoder) EncodeScene(ctx context.Context, s *scene.Scene) ([]byte, error) {
	_, span := e.start(ctx, "codec.EncodeScene", attribute.String("scene.name", s.Name()))
	defer span.End()

	env, err := e.Scene(s)
	if err != nil {
		return nil, e.fail(span, err)
	}
	return e.marshal(span, env, len(env.Records))
}

// EncodeEntity renders the subtree rooted at root in the configured format.
func (e *Encoder) EncodeEntity(ctx context.Context, root *scene.Entity) ([]byte, error) {
	_, span := e.start(ctx, "codec.EncodeEntity")
	defer span.End()

	env, err := e.Entity(root)
	if err != nil {
		return nil, e.fail(span, err)
	}
	return e.marshal(span, env, len(env.Records))
}

func (e *Encoder) marshal(span trace.Span, env any, records int) ([]byte, error) {
	data, err := e.opts.format.Marshal(env)
	if err != nil {
		return nil, e.fail(span, err)
	}
	span.SetAttributes(
		attribute.Int("codec.records", records),
		attribute.Int("codec.bytes", len(data)),
	)
	span.SetStatus(codes.Ok, "")
	e.opts.logger.Debug("graph encoded",
		log.String("format", e.opts.format.Name()),
		log.Int("records", records),
		log.Int("bytes", len(data)),
	)
	return data, nil
}

func (e *Encoder) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("codec.format", e.opts.format.Name()))
	return e.opts.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (e *Encoder) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// walker performs the pre-order traversal. Each entity is followed by its
// components in order, then by its children in order. Objects reached only
// through a reference are pulled in afterwards together with the subtree of
// the entity that owns them.
type walker struct {
	visited map[identity.ID]scene.Object
	records []*record.Record
	pending []identity.Identifiable
	cut     *scene.Transform
}

func newWalker() *walker {
	return &walker{
		visited: make(map[identity.ID]scene.Object),
		records: make([]*record.Record, 0),
	}
}

func (w *walker) entity(e *scene.Entity) error {
	if e == nil || !e.IsLive() {
		return nil
	}
	if seen, err := w.visit(e); seen || err != nil {
		return err
	}
	if err := w.emit(e); err != nil {
		return err
	}
	for _, c := range e.Components() {
		if seen, err := w.visit(c); seen || err != nil {
			if err != nil {
				return err
			}
			continue
		}
		if err := w.emit(c); err != nil {
			return err
		}
	}
	for _, child := range e.Children() {
		if err := w.entity(child); err != nil {
			return err
		}
	}
	return nil
}

// drain emits every referenced object that the traversal did not reach.
func (w *walker) drain() error {
	for i := 0; i < len(w.pending); i++ {
		switch obj := w.pending[i].(type) {
		case *scene.Entity:
			if err := w.entity(obj); err != nil {
				return err
			}
		case scene.Component:
			if owner := obj.Entity(); owner != nil {
				if err := w.entity(owner); err != nil {
					return err
				}
				continue
			}
			if err := w.loose(obj); err != nil {
				return err
			}
		case scene.Object:
			if err := w.loose(obj); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %T", ErrUnencodable, obj)
		}
	}
	return nil
}

func (w *walker) loose(o scene.Object) error {
	if !o.IsLive() {
		return nil
	}
	if seen, err := w.visit(o); seen || err != nil {
		return err
	}
	return w.emit(o)
}

// visit marks o as visited and reports whether it already was. Two
// different objects sharing one id cannot be told apart after a round trip
// and are rejected.
func (w *walker) visit(o scene.Object) (bool, error) {
	id := o.ID()
	if prev, ok := w.visited[id]; ok {
		if prev != o {
			return true, fmt.Errorf("%w: %s", ErrDuplicateObject, id)
		}
		return true, nil
	}
	w.visited[id] = o
	return false, nil
}

func (w *walker) emit(o scene.Object) error {
	rec := record.New(o.TypeTag(), o.ID(), o.Name())
	if err := o.Encode(rec); err != nil {
		return &RecordError{Index: len(w.records), ID: rec.ID, Type: rec.Type, Err: err}
	}
	links := rec.Linked()
	if w.cut != nil {
		switch parent := w.cut.Parent(); {
		case o == scene.Object(w.cut):
			rec.Set(scene.KeyParent, nil)
			links = dropLink(links, parent)
		case parent != nil && o == scene.Object(parent):
			// Pulled in by a reference from the subtree.
			dropChild(rec, w.cut.ID().String())
		}
	}
	w.records = append(w.records, rec)
	w.pending = append(w.pending, links...)
	return nil
}

func dropChild(rec *record.Record, id string) {
	raw, ok := rec.Lookup(scene.KeyChildren)
	if !ok {
		return
	}
	ids, ok := raw.([]string)
	if !ok {
		return
	}
	out := make([]string, 0, len(ids))
	for _, c := range ids {
		if c != id {
			out = append(out, c)
		}
	}
	rec.Set(scene.KeyChildren, out)
}

func dropLink(links []identity.Identifiable, target *scene.Transform) []identity.Identifiable {
	if target == nil {
		return links
	}
	out := links[:0:0]
	for _, l := range links {
		if t, ok := l.(*scene.Transform); ok && t == target {
			continue
		}
		out = append(out, l)
	}
	return out
}
