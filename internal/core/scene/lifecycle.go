package scene

// Notifier receives lifecycle transitions. It is resolved per entity by
// walking up the hierarchy to the nearest entity that has one.
type Notifier interface {
	ComponentEnabled(c Component)
	ComponentDisabled(c Component)
	ObjectDestroyed(o Object)
}

// syncEnabled brings c's enabled flag in line with the owner's state and
// fires at most one notification for the transition.
func (e *Entity) syncEnabled(c Component) {
	cb := c.base()
	want := c.IsLive() && e.IsLive() && e.ActiveInHierarchy()
	if cb.enabled == want {
		return
	}
	cb.enabled = want
	n := e.notifierInHierarchy()
	if want {
		if h, ok := c.(Enabler); ok {
			h.OnEnable()
		}
		if n != nil {
			n.ComponentEnabled(c)
		}
		return
	}
	if h, ok := c.(Disabler); ok {
		h.OnDisable()
	}
	if n != nil {
		n.ComponentDisabled(c)
	}
}

// Refresh re-evaluates the enabled state of every component in the subtree
// rooted at e. Decoders call it once the graph is fully wired.
func (e *Entity) Refresh() {
	for _, c := range e.components {
		e.syncEnabled(c)
	}
	for _, child := range e.transform.children {
		if child.owner != nil {
			child.owner.Refresh()
		}
	}
}

func (e *Entity) notifierInHierarchy() Notifier {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.notifier != nil {
			return cur.notifier
		}
	}
	return nil
}
