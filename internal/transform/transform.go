package transform

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/dgallion1/replout/internal/async"
	"github.com/dgallion1/replout/internal/chunker"
	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/highlight"
	"github.com/dgallion1/replout/internal/htmlbody"
	"github.com/dgallion1/replout/internal/value"
)

// Config wires the collaborators a Transformer depends on. Zero fields get
// defaults.
type Config struct {
	Highlighter   highlight.Highlighter
	Introspectors []async.Introspector
	Resolver      SourceResolver
	Log           *slog.Logger
}

// Transformer maps session values to display trees. It holds no per-call
// state and is safe for concurrent use.
type Transformer struct {
	hl            highlight.Highlighter
	introspectors []async.Introspector
	resolver      SourceResolver
	log           *slog.Logger
}

func New(cfg Config) *Transformer {
	t := &Transformer{
		hl:            cfg.Highlighter,
		introspectors: cfg.Introspectors,
		resolver:      cfg.Resolver,
		log:           cfg.Log,
	}
	if t.hl == nil {
		t.hl = highlight.Plain
	}
	if t.introspectors == nil {
		t.introspectors = async.DefaultIntrospectors()
	}
	if t.resolver == nil {
		t.resolver = FileResolver{}
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	return t
}

// Dispatch renders v according to its own type.
func (t *Transformer) Dispatch(v any) (display.Node, bool) {
	return t.DispatchAs(v, value.TypeOf(v))
}

// DispatchAs renders v with the strategy named by tag. ok is false when no
// strategy applies; callers then show the raw value.
func (t *Transformer) DispatchAs(v any, tag value.Tag) (display.Node, bool) {
	w := &walk{t: t}
	return w.dispatch(v, tag)
}

// Render is Dispatch with the raw-value fallback applied.
func (t *Transformer) Render(v any) display.Node {
	if n, ok := t.Dispatch(v); ok {
		return n
	}
	t.log.Debug("no formatter for value", "type", value.TypeName(v))
	return display.Raw{Value: v}
}

// walk carries the slices and async values already entered during one
// dispatch so that a value reaching itself terminates.
type walk struct {
	t    *Transformer
	seen map[refKey]bool
}

type refKey struct {
	ptr uintptr
	n   int
	typ reflect.Type
}

// enter marks key as in progress. It reports false when key is already being
// rendered further up; otherwise the caller must call leave.
func (w *walk) enter(key refKey) bool {
	if w.seen[key] {
		return false
	}
	if w.seen == nil {
		w.seen = make(map[refKey]bool)
	}
	w.seen[key] = true
	return true
}

func (w *walk) leave(key refKey) { delete(w.seen, key) }

// refOf returns the identity of a reference value. Values without one can
// only contain themselves through a reference, which is guarded instead.
func refOf(v any) (refKey, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return refKey{}, false
		}
		return refKey{ptr: rv.Pointer(), typ: rv.Type()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return refKey{}, false
		}
		return refKey{ptr: rv.Pointer(), n: rv.Len(), typ: rv.Type()}, true
	}
	return refKey{}, false
}

var circular = display.Literal{Text: "[Circular]"}

func (w *walk) dispatch(v any, tag value.Tag) (display.Node, bool) {
	switch tag {
	case value.TagNumber:
		return numberNode(v), true
	case value.TagBoolean:
		return display.Literal{Text: fmt.Sprint(v)}, true
	case value.TagString:
		return stringNode(textOf(v)), true
	case value.TagFunction:
		return w.t.function(v), true
	case value.TagSymbol:
		return display.Literal{Text: fmt.Sprint(v)}, true
	case value.TagUndefined:
		return display.Literal{Text: "undefined"}, true
	case value.TagObject:
		return w.object(v), true
	case value.TagArray:
		if !value.IsIndexed(v) {
			return nil, false
		}
		return w.array(v), true
	case value.TagRegexp:
		return regexNode(v)
	case value.TagNull:
		return display.Literal{Text: "null"}, true
	case value.TagBuffer:
		if !value.IsBuffer(v) && value.TypeOf(v) != value.TagString {
			return nil, false
		}
		return display.BufferNode{NativeRef: value.Bytes(v)}, true
	case value.TagPromise:
		return w.inspect(v)
	}
	return nil, false
}

// object applies the object-tag rules in order; the first match wins.
func (w *walk) object(v any) display.Node {
	if value.IsIndexed(v) {
		return w.array(v)
	}
	if value.IsRegexp(v) {
		n, _ := regexNode(v)
		return n
	}
	if value.IsNull(v) {
		return display.Literal{Text: "null"}
	}
	switch b := v.(type) {
	case value.NumberObject:
		return display.Primitive{TypeName: "Number", Text: numberNode(float64(b)).Text}
	case value.BooleanObject:
		return display.Primitive{TypeName: "Boolean", Text: strconv.FormatBool(bool(b))}
	}
	if _, ok := v.(value.Thenable); ok {
		if n, ok := w.inspect(v); ok {
			return n
		}
		w.t.log.Debug("thenable matched no async family", "type", value.TypeName(v))
	}
	if value.IsBuffer(v) {
		return display.BufferNode{NativeRef: value.Bytes(v)}
	}
	return display.ObjectNode{
		NativeRef:          v,
		TypeName:           value.TypeName(v),
		Label:              objectLabel(v),
		IsPrimitiveWrapper: value.IsTextual(v),
	}
}

func (w *walk) array(v any) display.Node {
	if key, ok := refOf(v); ok {
		if !w.enter(key) {
			return circular
		}
		defer w.leave(key)
	}

	items := value.Items(v)
	nodes := make([]display.Node, len(items))
	for i, item := range items {
		n, ok := w.dispatch(item, value.TypeOf(item))
		if !ok {
			n = display.Raw{Value: item}
		}
		nodes[i] = n
	}
	return chunker.Chunk(nodes)
}

// objectLabel probes v for a few well-known shapes. Probes may run value
// methods, so a panic in one yields no label instead of escaping.
func objectLabel(v any) (label string) {
	defer func() {
		if recover() != nil {
			label = ""
		}
	}()
	if value.IsElement(v) {
		return " ReactElement {}"
	}
	if err, ok := v.(error); ok {
		return " " + value.ErrorName(err) + " {}"
	}
	if value.IsBuffer(v) {
		return fmt.Sprintf(" Buffer (%d bytes) {}", len(value.Bytes(v)))
	}
	return ""
}

// inspect snapshots v with the first introspector that recognizes it. The
// settled value is dispatched within the same walk, so an async value that
// settles with itself, directly or through a collection, renders the repeat
// as [Circular].
func (w *walk) inspect(v any) (display.Node, bool) {
	for _, in := range w.t.introspectors {
		snap, ok := safeIntrospect(in, v)
		if !ok {
			continue
		}
		key, hasRef := refOf(v)
		if hasRef && !w.enter(key) {
			return circular, true
		}
		n := display.PromiseNode{
			Status:    promiseStatus(snap.Status),
			NativeRef: v,
		}
		if snap.Status != async.Pending {
			n.SnapshotValue = snap.Value
			n.Snapshot = w.render(snap.Value)
		}
		if hasRef {
			w.leave(key)
		}
		return n, true
	}
	return nil, false
}

// render is Transformer.Render within the current walk.
func (w *walk) render(v any) display.Node {
	if n, ok := w.dispatch(v, value.TypeOf(v)); ok {
		return n
	}
	return display.Raw{Value: v}
}

func safeIntrospect(in async.Introspector, v any) (snap async.Snapshot, ok bool) {
	defer func() {
		if recover() != nil {
			snap, ok = async.Snapshot{}, false
		}
	}()
	return in.Introspect(v)
}

func promiseStatus(s async.Status) display.PromiseStatus {
	switch s {
	case async.Resolved:
		return display.StatusResolved
	case async.Rejected:
		return display.StatusRejected
	}
	return display.StatusPending
}

func (t *Transformer) function(v any) display.FunctionNode {
	code := functionSource(v)
	n := display.FunctionNode{HighlightedSource: t.hl.Highlight(code)}
	if idx := strings.Index(code, "\n"); idx != -1 {
		n.CollapsedPreview = t.hl.Highlight(code[:idx])
		n.IsExpandable = true
	}
	return n
}

// functionSource returns the remembered source of an interpreted function,
// or a signature line for a compiled one.
func functionSource(v any) (src string) {
	defer func() {
		if recover() != nil {
			src = "func " + value.TypeName(v)
		}
	}()
	switch f := v.(type) {
	case value.Sourcer:
		return f.Source()
	case string:
		return f
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return fmt.Sprint(v)
	}
	sig := strings.TrimPrefix(rv.Type().String(), "func")
	name := ""
	if !rv.IsNil() {
		if fn := runtime.FuncForPC(rv.Pointer()); fn != nil {
			name = " " + fn.Name()
		}
	}
	return "func" + name + sig
}

func stringNode(s string) display.Node {
	if body, ok := htmlbody.Extract(s); ok {
		return display.HTMLStringNode{HTMLBody: body, SourceText: s}
	}
	return display.StringNode{Text: s}
}

func textOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

func regexNode(v any) (display.Node, bool) {
	switch re := v.(type) {
	case *regexp.Regexp:
		if re == nil {
			return nil, false
		}
		return display.RegexNode{NativeRef: v, Pattern: "/" + re.String() + "/"}, true
	case value.RegExp:
		return display.RegexNode{NativeRef: v, Pattern: re.String()}, true
	case *value.RegExp:
		if re == nil {
			return nil, false
		}
		return display.RegexNode{NativeRef: v, Pattern: re.String()}, true
	case string:
		return display.RegexNode{NativeRef: v, Pattern: "/" + re + "/"}, true
	}
	return nil, false
}

// numberNode renders any Go numeric kind. Values that are finite and whole
// take the integer path; everything else, including NaN and the infinities,
// is rendered as a generic number.
func numberNode(v any) display.NumberNode {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNode(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return intNode(int64(u))
		}
		return display.NumberNode{Value: float64(u), Text: strconv.FormatUint(u, 10), Integer: true}
	case reflect.Float32:
		return floatNode(rv.Float(), 32)
	case reflect.Float64:
		return floatNode(rv.Float(), 64)
	}
	return display.NumberNode{Value: math.NaN(), Text: fmt.Sprint(v)}
}

func floatNode(f float64, bits int) display.NumberNode {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			n := intNode(int64(f))
			n.Value = f
			return n
		}
		return display.NumberNode{Value: f, Text: strconv.FormatFloat(f, 'f', -1, bits), Integer: true}
	}
	return display.NumberNode{Value: f, Text: formatFloat(f, bits)}
}

func intNode(i int64) display.NumberNode {
	return display.NumberNode{
		Value:   float64(i),
		Text:    strconv.FormatInt(i, 10),
		Integer: true,
		Hex:     radix(i, 16, "0x"),
		Octal:   radix(i, 8, "0o"),
		Binary:  radix(i, 2, "0b"),
	}
}

func radix(i int64, base int, prefix string) string {
	if i < 0 {
		return "-" + prefix + strconv.FormatUint(uint64(-(i+1))+1, base)
	}
	return prefix + strconv.FormatInt(i, base)
}

func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
