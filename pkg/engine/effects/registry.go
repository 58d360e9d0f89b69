// Package effects keeps the restore points for temporary upgrade overrides.
//
// Every overridden value is addressed by a pointer. The first override of a
// target records its original value; later overrides (from the same key or
// from other keys) stack on top of it as layers. The target is only restored
// once the last layer is reverted.
package effects

// Key identifies an upgrade effect (e.g. "freeze", "brake").
type Key string

type layer struct {
	key   Key
	value float64
}

// entry holds the restore point of a single target.
type entry struct {
	target   *float64
	original float64
	layers   []layer
}

func (e *entry) find(key Key) int {
	for i, l := range e.layers {
		if l.key == key {
			return i
		}
	}
	return -1
}

// Registry records original values of overridden targets.
// It is not safe for concurrent use.
type Registry struct {
	entries []*entry // insertion order, so ClearAll is deterministic
	byPtr   map[*float64]*entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byPtr: make(map[*float64]*entry),
	}
}

// Apply overrides *target with value under key.
// The value *target had before its first override is kept as the restore point;
// re-applying never replaces it with an already boosted value.
func (r *Registry) Apply(key Key, target *float64, value float64) {
	if target == nil {
		return
	}
	e, ok := r.byPtr[target]
	if !ok {
		e = &entry{target: target, original: *target}
		r.byPtr[target] = e
		r.entries = append(r.entries, e)
	}
	if i := e.find(key); i >= 0 {
		e.layers[i].value = value
	} else {
		e.layers = append(e.layers, layer{key: key, value: value})
	}
	*target = value
}

// Scale overrides *target with its original value multiplied by factor.
// Scaling twice with the same key does not compound.
func (r *Registry) Scale(key Key, target *float64, factor float64) {
	if target == nil {
		return
	}
	base := *target
	if e, ok := r.byPtr[target]; ok {
		base = e.original
	}
	r.Apply(key, target, base*factor)
}

// Revert removes the override key holds on target. The target falls back to
// the most recent remaining override, or to its original value when none is left.
// Reverting something that is not applied is a no-op.
func (r *Registry) Revert(key Key, target *float64) {
	e, ok := r.byPtr[target]
	if !ok {
		return
	}
	i := e.find(key)
	if i < 0 {
		return
	}
	e.layers = append(e.layers[:i], e.layers[i+1:]...)
	if len(e.layers) > 0 {
		*target = e.layers[len(e.layers)-1].value
		return
	}
	*target = e.original
	r.remove(e)
}

func (r *Registry) remove(e *entry) {
	delete(r.byPtr, e.target)
	for i, x := range r.entries {
		if x == e {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// ClearAll restores every overridden target to its original value and empties
// the registry. fn, if not nil, is called once per (key, original) pair in the
// order the overrides were first applied.
func (r *Registry) ClearAll(fn func(key Key, original float64)) {
	for _, e := range r.entries {
		*e.target = e.original
		if fn == nil {
			continue
		}
		for _, l := range e.layers {
			fn(l.key, e.original)
		}
	}
	r.entries = nil
	r.byPtr = make(map[*float64]*entry)
}

// Active reports whether key currently overrides any target.
func (r *Registry) Active(key Key) bool {
	for _, e := range r.entries {
		if e.find(key) >= 0 {
			return true
		}
	}
	return false
}

// Original returns the restore point stored for target while key overrides it.
func (r *Registry) Original(key Key, target *float64) (float64, bool) {
	e, ok := r.byPtr[target]
	if !ok || e.find(key) < 0 {
		return 0, false
	}
	return e.original, true
}

// Len returns the number of (key, target) overrides currently held.
func (r *Registry) Len() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.layers)
	}
	return n
}
