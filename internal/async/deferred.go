package async

// record is the single state holder of a Deferred: s is the numeric state
// code (0 pending, 1 resolved, 2 rejected) and v the stored value.
type record struct {
	s int
	v any
}

// Deferred is the library-implemented async value. Its state lives in one
// plain record that introspection can read directly. The zero value is a
// pending Deferred.
type Deferred struct {
	state *record
	base  settler
}

// NewDeferred returns a pending Deferred.
func NewDeferred() *Deferred {
	return &Deferred{state: &record{}}
}

// Resolve settles d with v. Settling twice is a no-op.
func (d *Deferred) Resolve(v any) { d.base.settle(Resolved, v, d.store) }

// Reject settles d with reason.
func (d *Deferred) Reject(reason any) { d.base.settle(Rejected, reason, d.store) }

func (d *Deferred) Then(onFulfilled, onRejected func(any)) {
	d.base.then(onFulfilled, onRejected)
}

// store replaces the state record. It runs under the settler's lock.
func (d *Deferred) store(st Status, v any) {
	d.state = &record{s: int(st), v: v}
}

func (d *Deferred) holder() *record {
	d.base.mu.Lock()
	defer d.base.mu.Unlock()
	return d.state
}
