package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolyfillIntrospector(t *testing.T) {
	d := NewDeferred()

	snap, ok := PolyfillIntrospector{}.Introspect(d)
	require.True(t, ok)
	require.Equal(t, Pending, snap.Status)
	require.Nil(t, snap.Value)

	d.Resolve(42)
	snap, ok = PolyfillIntrospector{}.Introspect(d)
	require.True(t, ok)
	require.Equal(t, Resolved, snap.Status)
	require.Equal(t, 42, snap.Value)

	// Second settlement is ignored.
	d.Reject("late")
	snap, _ = PolyfillIntrospector{}.Introspect(d)
	require.Equal(t, Resolved, snap.Status)
}

func TestPolyfillIntrospectorRejected(t *testing.T) {
	d := NewDeferred()
	d.Reject("nope")
	snap, ok := PolyfillIntrospector{}.Introspect(d)
	require.True(t, ok)
	require.Equal(t, Rejected, snap.Status)
	require.Equal(t, "nope", snap.Value)
}

func TestPolyfillIntrospectorIgnoresOtherFamilies(t *testing.T) {
	f, _, _ := NewFuture()
	_, ok := PolyfillIntrospector{}.Introspect(f)
	require.False(t, ok)
	_, ok = PolyfillIntrospector{}.Introspect((*Deferred)(nil))
	require.False(t, ok)
}

func TestMirrorIntrospector(t *testing.T) {
	in := MirrorIntrospector{Mirror: DebugMirror{}}
	f, resolve, _ := NewFuture()

	snap, ok := in.Introspect(f)
	require.True(t, ok)
	require.Equal(t, Pending, snap.Status)

	resolve("done")
	snap, ok = in.Introspect(f)
	require.True(t, ok)
	require.Equal(t, Resolved, snap.Status)
	require.Equal(t, "done", snap.Value)

	_, ok = in.Introspect(NewDeferred())
	require.False(t, ok)
}

func TestMirrorIntrospectorWithoutMirror(t *testing.T) {
	f, _, _ := NewFuture()
	_, ok := MirrorIntrospector{}.Introspect(f)
	require.False(t, ok)
}

func TestGoRejectsOnError(t *testing.T) {
	boom := errors.New("boom")
	f := Go(func() (any, error) { return nil, boom })

	got := make(chan any, 1)
	f.Then(func(any) { got <- nil }, func(r any) { got <- r })
	require.Equal(t, boom, <-got)

	snap, ok := MirrorIntrospector{Mirror: DebugMirror{}}.Introspect(f)
	require.True(t, ok)
	require.Equal(t, Rejected, snap.Status)
}

func TestThenAfterSettlementFiresImmediately(t *testing.T) {
	d := NewDeferred()
	d.Resolve("x")
	var seen any
	d.Then(func(v any) { seen = v }, nil)
	require.Equal(t, "x", seen)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "resolved", Resolved.String())
	require.Equal(t, "rejected", Rejected.String())
}

func TestZeroValueDeferred(t *testing.T) {
	var d Deferred

	snap, ok := PolyfillIntrospector{}.Introspect(&d)
	require.True(t, ok)
	require.Equal(t, Pending, snap.Status)

	d.Resolve(3)
	snap, ok = PolyfillIntrospector{}.Introspect(&d)
	require.True(t, ok)
	require.Equal(t, Resolved, snap.Status)
	require.Equal(t, 3, snap.Value)
}
