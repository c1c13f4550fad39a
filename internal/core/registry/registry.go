// Package registry maps record type tags to factories so that entity and
// component types registered at runtime can be decoded polymorphically.
//
// Registration is expected to complete before decoding starts. The
// registry is guarded by a lock, but registering a tag while a decode that
// uses it is running gives that decode no guarantee about which factory it
// sees.
package registry

import (
	"sort"
	"sync"

	"github.com/zeusync/scenegraph/internal/core/observability/log"
	"github.com/zeusync/scenegraph/internal/core/scene"
)

// Factory constructs an empty object of one type. Field decoding is done by
// the object's own Decode method.
type Factory interface {
	Construct() scene.Object
}

// FactoryFunc adapts a constructor to Factory.
type FactoryFunc func() scene.Object

func (f FactoryFunc) Construct() scene.Object {
	return f()
}

// Builtins returns the factories that are always registered.
func Builtins() map[string]Factory {
	return map[string]Factory{
		scene.TagEntity: FactoryFunc(func() scene.Object {
			return scene.NewEntity("")
		}),
		scene.TagTransform: FactoryFunc(func() scene.Object {
			return scene.NewTransform()
		}),
	}
}

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	logger    log.Log
}

type Option func(*Registry)

func WithLogger(l log.Log) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a registry seeded with the built-in types.
func New(opts ...Option) *Registry {
	r := &Registry{logger: log.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	r.factories = Builtins()
	return r
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = New() })
	return defaultRegistry
}

// Register binds tag to factory. A later registration for the same tag
// replaces the earlier one.
func (r *Registry) Register(tag string, factory Factory) error {
	if tag == "" {
		return ErrEmptyTag
	}
	if factory == nil {
		return ErrNilFactory
	}
	r.mu.Lock()
	_, replaced := r.factories[tag]
	r.factories[tag] = factory
	r.mu.Unlock()

	if replaced {
		r.logger.Debug("type factory replaced", log.String("tag", tag))
	}
	return nil
}

// RegisterFunc is shorthand for Register(tag, FactoryFunc(fn)).
func (r *Registry) RegisterFunc(tag string, fn func() scene.Object) error {
	if fn == nil {
		return ErrNilFactory
	}
	return r.Register(tag, FactoryFunc(fn))
}

func (r *Registry) Get(tag string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[tag]
	return f, ok
}

func (r *Registry) Has(tag string) bool {
	_, ok := r.Get(tag)
	return ok
}

// Tags lists the registered tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	r.mu.RUnlock()
	sort.Strings(tags)
	return tags
}

// Construct builds an empty object for tag.
func (r *Registry) Construct(tag string) (scene.Object, error) {
	f, ok := r.Get(tag)
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	obj := f.Construct()
	if obj == nil {
		return nil, &FactoryError{Tag: tag, Err: ErrNilObject}
	}
	if got := obj.TypeTag(); got != tag {
		r.logger.Debug("factory object reports a different tag",
			log.String("tag", tag),
			log.String("reported", got),
		)
	}
	return obj, nil
}

// Attach constructs a component by tag and adds it to e.
func (r *Registry) Attach(e *scene.Entity, tag string) (scene.Component, error) {
	obj, err := r.Construct(tag)
	if err != nil {
		return nil, err
	}
	c, ok := obj.(scene.Component)
	if !ok {
		return nil, &FactoryError{Tag: tag, Err: ErrNotComponent}
	}
	if err := e.AddComponent(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ResetToBuiltins drops every registration except the built-in types.
func (r *Registry) ResetToBuiltins() {
	r.mu.Lock()
	r.factories = Builtins()
	r.mu.Unlock()
}
