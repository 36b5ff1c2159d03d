package value

import (
	"reflect"
	"regexp"
)

// Tag is the coarse type of a session value, mirroring what the session's
// typeof operator reports.
type Tag string

const (
	TagNumber    Tag = "number"
	TagBoolean   Tag = "boolean"
	TagString    Tag = "string"
	TagFunction  Tag = "function"
	TagSymbol    Tag = "symbol"
	TagUndefined Tag = "undefined"
	TagObject    Tag = "object"

	// Override-only tags. TypeOf never returns these; callers pass them when
	// they already know how a value should be shown.
	TagArray   Tag = "array"
	TagRegexp  Tag = "regexp"
	TagNull    Tag = "null"
	TagBuffer  Tag = "buffer"
	TagPromise Tag = "promise"
)

var knownTags = map[Tag]bool{
	TagNumber: true, TagBoolean: true, TagString: true, TagFunction: true,
	TagSymbol: true, TagUndefined: true, TagObject: true, TagArray: true,
	TagRegexp: true, TagNull: true, TagBuffer: true, TagPromise: true,
}

// ParseTag converts an override string into a Tag.
func ParseTag(s string) (Tag, bool) {
	t := Tag(s)
	return t, knownTags[t]
}

type undefinedType struct{}

func (undefinedType) String() string { return "undefined" }

// Undefined is the session's "no value" marker, distinct from nil (null).
var Undefined = undefinedType{}

// Symbol is a unique, optionally described token.
type Symbol struct {
	Description string
}

func (s Symbol) String() string { return "Symbol(" + s.Description + ")" }

// NumberObject, BooleanObject and StringObject are boxed primitives: they
// carry a primitive value but report as objects.
type (
	NumberObject  float64
	BooleanObject bool
	StringObject  string
)

// Buffer is a raw byte buffer value.
type Buffer []byte

// RegExp is a regular expression carried as source text, for engines other
// than Go's regexp package.
type RegExp struct {
	Source string
	Flags  string
}

func (r RegExp) String() string { return "/" + r.Source + "/" + r.Flags }

// Thenable is any value that accepts settlement callbacks.
type Thenable interface {
	Then(onFulfilled, onRejected func(any))
}

// Sourcer is implemented by interpreted functions that remember their source.
type Sourcer interface {
	Source() string
}

// Getter is implemented by objects with computed properties. A returned error
// is treated the same as a panic during the read.
type Getter interface {
	Get(prop string) (any, error)
}

// Keyed lists the properties a Getter exposes.
type Keyed interface {
	Keys() []string
}

// Element marks UI element values produced by a component framework.
type Element interface {
	IsReactElement() bool
}

// Named lets error values report a class name such as "TypeError".
type Named interface {
	Name() string
}

var (
	bytesType  = reflect.TypeOf([]byte(nil))
	bufferType = reflect.TypeOf(Buffer(nil))
)

// TypeOf reports the tag of v.
func TypeOf(v any) Tag {
	switch v.(type) {
	case nil:
		return TagObject
	case undefinedType:
		return TagUndefined
	case Symbol:
		return TagSymbol
	case bool:
		return TagBoolean
	case string:
		return TagString
	case Sourcer:
		return TagFunction
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		if isBoxed(v) {
			return TagObject
		}
		return TagNumber
	case reflect.Bool:
		if isBoxed(v) {
			return TagObject
		}
		return TagBoolean
	case reflect.String:
		if isBoxed(v) {
			return TagObject
		}
		return TagString
	case reflect.Func:
		if reflect.ValueOf(v).IsNil() {
			return TagObject
		}
		return TagFunction
	}
	return TagObject
}

func isBoxed(v any) bool {
	switch v.(type) {
	case NumberObject, BooleanObject, StringObject:
		return true
	}
	return false
}

// IsNull reports whether v is null: untyped nil or a nil pointer, map,
// channel, interface or function.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// IsIndexed reports whether v is a sequential collection. Byte slices are
// buffers, not arrays.
func IsIndexed(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return !IsBuffer(v)
	}
	return false
}

// Items copies the elements of an indexed collection into a fresh slice.
func Items(v any) []any {
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// IsBuffer reports whether v is a byte buffer.
func IsBuffer(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t == bytesType || t == bufferType {
		return true
	}
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem().PkgPath() == ""
}

// Bytes returns the contents of a buffer value.
func Bytes(v any) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case Buffer:
		return b
	case string:
		return []byte(b)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return rv.Bytes()
	}
	return nil
}

// IsRegexp reports whether v is a regular expression.
func IsRegexp(v any) bool {
	switch v.(type) {
	case *regexp.Regexp:
		return !IsNull(v)
	case RegExp, *RegExp:
		return !IsNull(v)
	}
	return false
}

// IsTextual reports whether v carries text, boxed or not.
func IsTextual(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.String
}

// IsElement reports whether v is a UI framework element.
func IsElement(v any) bool {
	e, ok := v.(Element)
	return ok && e.IsReactElement()
}

// IsError reports whether v is error-like.
func IsError(v any) bool {
	_, ok := v.(error)
	return ok && !IsNull(v)
}

// ErrorName returns the class name of an error value.
func ErrorName(err error) string {
	if n, ok := err.(Named); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return "Error"
}

// TypeName is a short description of v's dynamic type, used where a live
// reference cannot be serialized.
func TypeName(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}
