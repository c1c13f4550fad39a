package scene

// componentPtr constrains Add to pointer types whose element embeds
// ComponentBase.
type componentPtr[T any] interface {
	*T
	Component
}

// Add constructs a zero-valued component of type T, assigns it an id and
// attaches it to e.
func Add[T any, PT componentPtr[T]](e *Entity) (PT, error) {
	c := PT(new(T))
	if err := e.AddComponent(c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetComponent returns the first live component of type T attached directly
// to e.
func GetComponent[T Component](e *Entity) (T, bool) {
	for _, c := range e.components {
		if !c.IsLive() {
			continue
		}
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

// GetComponents returns every live component of type T attached directly to
// e, in insertion order.
func GetComponents[T Component](e *Entity) []T {
	var out []T
	for _, c := range e.components {
		if !c.IsLive() {
			continue
		}
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// GetComponentInChildren searches e and then its descendants depth-first.
// Unless includeInactive is set, entities that are not active in the
// hierarchy are skipped together with their subtrees.
func GetComponentInChildren[T Component](e *Entity, includeInactive bool) (T, bool) {
	var (
		found T
		ok    bool
	)
	walk(e, includeInactive, func(cur *Entity) bool {
		found, ok = GetComponent[T](cur)
		return !ok
	})
	return found, ok
}

// GetComponentsInChildren collects every match in depth-first order.
func GetComponentsInChildren[T Component](e *Entity, includeInactive bool) []T {
	var out []T
	walk(e, includeInactive, func(cur *Entity) bool {
		out = append(out, GetComponents[T](cur)...)
		return true
	})
	return out
}

// GetComponentInParent searches e and then its ancestors, nearest first.
func GetComponentInParent[T Component](e *Entity, includeInactive bool) (T, bool) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if !cur.IsLive() {
			continue
		}
		if !includeInactive && !cur.ActiveInHierarchy() {
			continue
		}
		if c, ok := GetComponent[T](cur); ok {
			return c, true
		}
	}
	var zero T
	return zero, false
}

// walk visits live entities depth-first, pre-order, until fn returns false.
func walk(e *Entity, includeInactive bool, fn func(*Entity) bool) bool {
	if e == nil || !e.IsLive() {
		return true
	}
	if !includeInactive && !e.ActiveInHierarchy() {
		return true
	}
	if !fn(e) {
		return false
	}
	for _, child := range e.Children() {
		if !walk(child, includeInactive, fn) {
			return false
		}
	}
	return true
}
