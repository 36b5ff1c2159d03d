// Package async provides the two async-value families a session can produce
// and the introspectors that snapshot their state without waiting on them.
package async

import "sync"

// Status is the settlement state of an async value.
type Status int

const (
	Pending Status = iota
	Resolved
	Rejected
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	}
	return "pending"
}

// Snapshot is the state of an async value at one instant.
type Snapshot struct {
	Status Status
	Value  any
}

type callback struct {
	onFulfilled func(any)
	onRejected  func(any)
}

// settler holds the shared resolve/reject/then bookkeeping.
type settler struct {
	mu        sync.Mutex
	status    Status
	value     any
	callbacks []callback
}

// settle records the outcome once. observe, when non-nil, runs under mu at
// the moment of settlement.
func (s *settler) settle(status Status, v any, observe func(Status, any)) bool {
	s.mu.Lock()
	if s.status != Pending {
		s.mu.Unlock()
		return false
	}
	s.status = status
	s.value = v
	if observe != nil {
		observe(status, v)
	}
	cbs := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, cb := range cbs {
		fire(cb, status, v)
	}
	return true
}

func (s *settler) then(onFulfilled, onRejected func(any)) {
	s.mu.Lock()
	if s.status == Pending {
		s.callbacks = append(s.callbacks, callback{onFulfilled, onRejected})
		s.mu.Unlock()
		return
	}
	status, v := s.status, s.value
	s.mu.Unlock()
	fire(callback{onFulfilled, onRejected}, status, v)
}

func (s *settler) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Status: s.status, Value: s.value}
}

func fire(cb callback, status Status, v any) {
	switch {
	case status == Resolved && cb.onFulfilled != nil:
		cb.onFulfilled(v)
	case status == Rejected && cb.onRejected != nil:
		cb.onRejected(v)
	}
}
