package scene

// Scene owns an ordered list of root entities. It is the unit written to and
// read from a scene envelope.
type Scene struct {
	name       string
	path       string
	buildIndex int
	roots      []*Entity
	notifier   Notifier
}

type Option func(*Scene)

func WithPath(path string) Option {
	return func(s *Scene) { s.path = path }
}

func WithBuildIndex(i int) Option {
	return func(s *Scene) { s.buildIndex = i }
}

// WithSceneNotifier attaches n to every root added without its own notifier.
func WithSceneNotifier(n Notifier) Option {
	return func(s *Scene) { s.notifier = n }
}

func NewScene(name string, opts ...Option) *Scene {
	s := &Scene{name: name, buildIndex: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scene) Name() string           { return s.name }
func (s *Scene) SetName(name string)    { s.name = name }
func (s *Scene) Path() string           { return s.path }
func (s *Scene) SetPath(path string)    { s.path = path }
func (s *Scene) BuildIndex() int        { return s.buildIndex }
func (s *Scene) SetBuildIndex(i int)    { s.buildIndex = i }
func (s *Scene) Notifier() Notifier     { return s.notifier }
func (s *Scene) SetNotifier(n Notifier) { s.notifier = n }

// AddRoot appends e to the root list, detaching it from any parent first.
func (s *Scene) AddRoot(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	if !e.IsLive() {
		return ErrDestroyed
	}
	for _, r := range s.roots {
		if r == e {
			return ErrAlreadyRoot
		}
	}
	if e.Parent() != nil {
		if err := e.transform.SetParent(nil); err != nil {
			return err
		}
	}
	if e.notifier == nil && s.notifier != nil {
		e.notifier = s.notifier
		e.Refresh()
	}
	s.roots = append(s.roots, e)
	return nil
}

// RemoveRoot drops e from the root list without destroying it.
func (s *Scene) RemoveRoot(e *Entity) bool {
	for i, r := range s.roots {
		if r == e {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return true
		}
	}
	return false
}

// Roots returns the live, parentless root entities in insertion order.
// Roots that were later reparented under another entity are skipped.
func (s *Scene) Roots() []*Entity {
	out := make([]*Entity, 0, len(s.roots))
	for _, r := range s.roots {
		if r.IsLive() && r.Parent() == nil {
			out = append(out, r)
		}
	}
	return out
}

func (s *Scene) RootCount() int {
	return len(s.Roots())
}

// SetRoots replaces the root list wholesale. Decoders use it once the whole
// graph is wired.
func (s *Scene) SetRoots(roots []*Entity) {
	s.roots = append([]*Entity(nil), roots...)
}

// Walk visits every live entity depth-first from the roots, including
// inactive ones, until fn returns false.
func (s *Scene) Walk(fn func(*Entity) bool) {
	for _, r := range s.Roots() {
		if !walk(r, true, fn) {
			return
		}
	}
}

// Find returns the first live entity named name in depth-first order.
func (s *Scene) Find(name string) (*Entity, bool) {
	var found *Entity
	s.Walk(func(e *Entity) bool {
		if e.Name() == name {
			found = e
			return false
		}
		return true
	})
	return found, found != nil
}

// FindWithTag returns every live entity carrying tag.
func (s *Scene) FindWithTag(tag string) []*Entity {
	var out []*Entity
	s.Walk(func(e *Entity) bool {
		if e.CompareTag(tag) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Count returns the number of live entities reachable from the roots.
func (s *Scene) Count() int {
	n := 0
	s.Walk(func(*Entity) bool {
		n++
		return true
	})
	return n
}
