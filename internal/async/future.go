package async

// Future is the runtime's own async value. Its state is deliberately not
// observable through its methods; only a Mirror can see it.
type Future struct {
	base settler
}

// NewFuture returns a pending Future and the functions that settle it.
func NewFuture() (f *Future, resolve, reject func(any)) {
	f = &Future{}
	resolve = func(v any) { f.base.settle(Resolved, v, nil) }
	reject = func(v any) { f.base.settle(Rejected, v, nil) }
	return f, resolve, reject
}

// Go runs fn on a new goroutine and settles the Future with its outcome.
func Go(fn func() (any, error)) *Future {
	f, resolve, reject := NewFuture()
	go func() {
		v, err := fn()
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return f
}

func (f *Future) Then(onFulfilled, onRejected func(any)) {
	f.base.then(onFulfilled, onRejected)
}
