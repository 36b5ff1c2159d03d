package transform

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dgallion1/replout/internal/async"
	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/highlight"
	"github.com/dgallion1/replout/internal/value"
)

func newTestTransformer() *Transformer {
	return New(Config{Highlighter: highlight.Func(func(src string) string {
		return "<hl>" + src + "</hl>"
	})})
}

func dispatch(t *testing.T, tr *Transformer, v any) display.Node {
	t.Helper()
	n, ok := tr.Dispatch(v)
	require.True(t, ok, "expected %T to dispatch", v)
	return n
}

func TestDispatchNumbers(t *testing.T) {
	tr := newTestTransformer()

	tcs := []struct {
		in      any
		text    string
		integer bool
	}{
		{42, "42", true},
		{int8(-3), "-3", true},
		{uint64(7), "7", true},
		{3.0, "3", true},
		{-0.0, "0", true},
		{1e15, "1000000000000000", true},
		{3.5, "3.5", false},
		{0.1, "0.1", false},
		{float32(1.5), "1.5", false},
		{math.NaN(), "NaN", false},
		{math.Inf(1), "Infinity", false},
		{math.Inf(-1), "-Infinity", false},
		{1e-7, "1e-07", false},
	}
	for _, tc := range tcs {
		n := dispatch(t, tr, tc.in).(display.NumberNode)
		require.Equal(t, tc.text, n.Text, "input %v", tc.in)
		require.Equal(t, tc.integer, n.Integer, "input %v", tc.in)
	}
}

func TestIntegerRadixRenderings(t *testing.T) {
	n := dispatch(t, newTestTransformer(), 255).(display.NumberNode)
	require.Equal(t, "0xff", n.Hex)
	require.Equal(t, "0o377", n.Octal)
	require.Equal(t, "0b11111111", n.Binary)

	neg := dispatch(t, newTestTransformer(), -8).(display.NumberNode)
	require.Equal(t, "-0x8", neg.Hex)

	big := dispatch(t, newTestTransformer(), 1e300).(display.NumberNode)
	require.True(t, big.Integer)
	require.Empty(t, big.Hex)
}

func TestDispatchLiterals(t *testing.T) {
	tr := newTestTransformer()
	require.Equal(t, display.Literal{Text: "true"}, dispatch(t, tr, true))
	require.Equal(t, display.Literal{Text: "null"}, dispatch(t, tr, nil))
	require.Equal(t, display.Literal{Text: "null"}, dispatch(t, tr, (*struct{})(nil)))
	require.Equal(t, display.Literal{Text: "null"}, dispatch(t, tr, map[string]any(nil)))
	require.Equal(t, display.Literal{Text: "undefined"}, dispatch(t, tr, value.Undefined))
	require.Equal(t, display.Literal{Text: "Symbol(iter)"}, dispatch(t, tr, value.Symbol{Description: "iter"}))
}

func TestDispatchStrings(t *testing.T) {
	tr := newTestTransformer()
	require.Equal(t, display.StringNode{Text: "hello"}, dispatch(t, tr, "hello"))

	n := dispatch(t, tr, "<html><body><p>hi</p></body></html>")
	require.Equal(t, display.HTMLStringNode{
		HTMLBody:   "<p>hi</p>",
		SourceText: "<html><body><p>hi</p></body></html>",
	}, n)
}

type interpreted struct{ src string }

func (f interpreted) Source() string { return f.src }

func TestDispatchFunctions(t *testing.T) {
	tr := newTestTransformer()

	one := dispatch(t, tr, interpreted{"x => x + 1"}).(display.FunctionNode)
	require.Equal(t, "<hl>x => x + 1</hl>", one.HighlightedSource)
	require.False(t, one.IsExpandable)
	require.Empty(t, one.CollapsedPreview)

	multi := dispatch(t, tr, interpreted{"function f() {\n  return 1\n}"}).(display.FunctionNode)
	require.True(t, multi.IsExpandable)
	require.Equal(t, "<hl>function f() {</hl>", multi.CollapsedPreview)
	require.Equal(t, "<hl>function f() {\n  return 1\n}</hl>", multi.HighlightedSource)

	compiled := dispatch(t, tr, math.Abs).(display.FunctionNode)
	require.Contains(t, compiled.HighlightedSource, "math.Abs")
	require.Contains(t, compiled.HighlightedSource, "(float64) float64")
}

func TestDispatchObjectOrder(t *testing.T) {
	tr := newTestTransformer()

	arr := dispatch(t, tr, []any{1, "a"}).(display.ArrayChunk)
	require.Equal(t, "Array[2]", arr.Label)
	require.Equal(t, display.StringNode{Text: "a"}, arr.Items[1])

	re := dispatch(t, tr, regexp.MustCompile(`a+b`)).(display.RegexNode)
	require.Equal(t, "/a+b/", re.Pattern)

	jsre := dispatch(t, tr, value.RegExp{Source: "x", Flags: "gi"}).(display.RegexNode)
	require.Equal(t, "/x/gi", jsre.Pattern)

	require.Equal(t, display.Primitive{TypeName: "Number", Text: "3"}, dispatch(t, tr, value.NumberObject(3)))
	require.Equal(t, display.Primitive{TypeName: "Boolean", Text: "false"}, dispatch(t, tr, value.BooleanObject(false)))

	buf := dispatch(t, tr, []byte("abc")).(display.BufferNode)
	require.Equal(t, []byte("abc"), buf.NativeRef)

	obj := dispatch(t, tr, map[string]int{"a": 1}).(display.ObjectNode)
	require.Empty(t, obj.Label)
	require.False(t, obj.IsPrimitiveWrapper)
	require.Equal(t, "map[string]int", obj.TypeName)

	wrapped := dispatch(t, tr, value.StringObject("s")).(display.ObjectNode)
	require.True(t, wrapped.IsPrimitiveWrapper)
}

type element struct{}

func (element) IsReactElement() bool { return true }

type typeError struct{ msg string }

func (e typeError) Error() string { return e.msg }
func (typeError) Name() string    { return "TypeError" }

type explodingElement struct{}

func (explodingElement) IsReactElement() bool { panic("getter threw") }

func TestObjectLabels(t *testing.T) {
	tr := newTestTransformer()

	require.Equal(t, " ReactElement {}", dispatch(t, tr, element{}).(display.ObjectNode).Label)
	require.Equal(t, " TypeError {}", dispatch(t, tr, typeError{"bad"}).(display.ObjectNode).Label)
	require.Equal(t, " Error {}", dispatch(t, tr, &struct{ error }{}).(display.ObjectNode).Label)

	// A probe that panics must not escape dispatch.
	n := dispatch(t, tr, explodingElement{}).(display.ObjectNode)
	require.Empty(t, n.Label)
}

func TestDispatchPromises(t *testing.T) {
	tr := newTestTransformer()

	d := async.NewDeferred()
	p := dispatch(t, tr, d).(display.PromiseNode)
	require.Equal(t, display.StatusPending, p.Status)
	require.Nil(t, p.Snapshot)
	require.Same(t, d, p.NativeRef)

	f, resolve, _ := async.NewFuture()
	resolve(7)
	p = dispatch(t, tr, f).(display.PromiseNode)
	require.Equal(t, display.StatusResolved, p.Status)
	require.Equal(t, 7, p.SnapshotValue)
	require.Equal(t, "7", p.Snapshot.(display.NumberNode).Text)

	rej := async.NewDeferred()
	rej.Reject("no")
	p = dispatch(t, tr, rej).(display.PromiseNode)
	require.Equal(t, display.StatusRejected, p.Status)
	require.Equal(t, display.StringNode{Text: "no"}, p.Snapshot)
}

type foreignThenable struct{}

func (foreignThenable) Then(func(any), func(any)) {}

func TestUnknownThenableFallsThroughToObject(t *testing.T) {
	n := dispatch(t, newTestTransformer(), foreignThenable{})
	require.IsType(t, display.ObjectNode{}, n)
}

func TestOnlyFamiliesTheTransformerKnows(t *testing.T) {
	tr := New(Config{Introspectors: []async.Introspector{async.PolyfillIntrospector{}}})
	f, _, _ := async.NewFuture()
	require.IsType(t, display.ObjectNode{}, dispatch(t, tr, f))
}

func TestDispatchAsOverrides(t *testing.T) {
	tr := newTestTransformer()

	buf, ok := tr.DispatchAs("hi", value.TagBuffer)
	require.True(t, ok)
	require.Equal(t, display.BufferNode{NativeRef: []byte("hi")}, buf)

	fn, ok := tr.DispatchAs("a()\nb()", value.TagFunction)
	require.True(t, ok)
	require.True(t, fn.(display.FunctionNode).IsExpandable)

	re, ok := tr.DispatchAs("ab*", value.TagRegexp)
	require.True(t, ok)
	require.Equal(t, "/ab*/", re.(display.RegexNode).Pattern)

	null, ok := tr.DispatchAs(map[string]any{}, value.TagNull)
	require.True(t, ok)
	require.Equal(t, display.Literal{Text: "null"}, null)

	_, ok = tr.DispatchAs(42, value.TagArray)
	require.False(t, ok)

	_, ok = tr.DispatchAs("x", value.Tag("widget"))
	require.False(t, ok)

	_, ok = tr.DispatchAs(42, value.TagPromise)
	require.False(t, ok)
}

func TestSelfReferentialSliceTerminates(t *testing.T) {
	s := make([]any, 1)
	s[0] = s
	n := dispatch(t, newTestTransformer(), s).(display.ArrayChunk)
	require.Equal(t, display.Literal{Text: "[Circular]"}, n.Items[0])
}

func TestLargeArrayIsChunked(t *testing.T) {
	items := make([]int, 250)
	n := dispatch(t, newTestTransformer(), items).(display.ArrayChunk)
	require.Equal(t, "Array[250]", n.Label)
	require.False(t, n.Indexed)
	require.Len(t, n.Items, 3)
	require.Equal(t, "[200 … 249]", n.Items[2].(display.ArrayChunk).Label)
}

func TestPromiseSettledWithItselfTerminates(t *testing.T) {
	tr := newTestTransformer()

	d := async.NewDeferred()
	d.Resolve(d)
	p := dispatch(t, tr, d).(display.PromiseNode)
	require.Equal(t, display.StatusResolved, p.Status)
	require.Equal(t, display.Literal{Text: "[Circular]"}, p.Snapshot)

	f, _, reject := async.NewFuture()
	reject(f)
	p = dispatch(t, tr, f).(display.PromiseNode)
	require.Equal(t, display.StatusRejected, p.Status)
	require.Equal(t, display.Literal{Text: "[Circular]"}, p.Snapshot)
}

func TestPromiseSettledWithCollectionHoldingItselfTerminates(t *testing.T) {
	tr := newTestTransformer()

	d := async.NewDeferred()
	d.Resolve([]any{d, 1})
	p := dispatch(t, tr, d).(display.PromiseNode)
	arr := p.Snapshot.(display.ArrayChunk)
	require.Equal(t, display.Literal{Text: "[Circular]"}, arr.Items[0])
	require.Equal(t, "1", arr.Items[1].(display.NumberNode).Text)

	// The same promise seen twice side by side is not a cycle.
	inner := async.NewDeferred()
	inner.Resolve("x")
	n := dispatch(t, tr, []any{inner, inner}).(display.ArrayChunk)
	require.IsType(t, display.PromiseNode{}, n.Items[0])
	require.IsType(t, display.PromiseNode{}, n.Items[1])
}
