package async

// Introspector reads the state of one family of async values. ok is false
// when v does not belong to the family. Introspection never waits for
// settlement and never registers callbacks.
type Introspector interface {
	Introspect(v any) (snap Snapshot, ok bool)
}

// DefaultIntrospectors returns the strategies for both families, the
// library family first.
func DefaultIntrospectors() []Introspector {
	return []Introspector{
		PolyfillIntrospector{},
		MirrorIntrospector{Mirror: DebugMirror{}},
	}
}

// PolyfillIntrospector reads a Deferred's state record directly.
type PolyfillIntrospector struct{}

func (PolyfillIntrospector) Introspect(v any) (Snapshot, bool) {
	d, ok := v.(*Deferred)
	if !ok || d == nil {
		return Snapshot{}, false
	}
	rec := d.holder()
	if rec == nil {
		return Snapshot{Status: Pending}, true
	}
	return Snapshot{Status: statusOf(rec.s), Value: rec.v}, true
}

func statusOf(code int) Status {
	switch code {
	case 0:
		return Pending
	case 1:
		return Resolved
	}
	return Rejected
}

// PromiseMirror is a read-only view of async state that the value itself
// does not expose.
type PromiseMirror interface {
	IsPromise() bool
	Status() Status
	PromiseValue() any
}

// Mirror is the privileged capability that builds PromiseMirrors. Runtimes
// with a different native async type supply their own.
type Mirror interface {
	MakeMirror(v any) PromiseMirror
}

// MirrorIntrospector snapshots native async values through a Mirror.
type MirrorIntrospector struct {
	Mirror Mirror
}

func (m MirrorIntrospector) Introspect(v any) (Snapshot, bool) {
	if m.Mirror == nil {
		return Snapshot{}, false
	}
	pm := m.Mirror.MakeMirror(v)
	if pm == nil || !pm.IsPromise() {
		return Snapshot{}, false
	}
	snap := Snapshot{Status: pm.Status()}
	if snap.Status != Pending {
		snap.Value = pm.PromiseValue()
	}
	return snap, true
}

// DebugMirror mirrors Futures.
type DebugMirror struct{}

func (DebugMirror) MakeMirror(v any) PromiseMirror {
	f, ok := v.(*Future)
	if !ok || f == nil {
		return futureMirror{}
	}
	return futureMirror{ok: true, snap: f.base.snapshot()}
}

// futureMirror captures state once so Status and PromiseValue agree.
type futureMirror struct {
	ok   bool
	snap Snapshot
}

func (m futureMirror) IsPromise() bool   { return m.ok }
func (m futureMirror) Status() Status    { return m.snap.Status }
func (m futureMirror) PromiseValue() any { return m.snap.Value }
