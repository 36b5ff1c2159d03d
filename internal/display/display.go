package display

import (
	"encoding/json"
	"fmt"
)

// Kind names a display node variant.
type Kind string

const (
	KindPrimitive      Kind = "primitive"
	KindLiteral        Kind = "literal"
	KindNumber         Kind = "number"
	KindArrayChunk     Kind = "array_chunk"
	KindObject         Kind = "object"
	KindFunction       Kind = "function"
	KindPromise        Kind = "promise"
	KindBuffer         Kind = "buffer"
	KindRegex          Kind = "regex"
	KindString         Kind = "string"
	KindHTMLString     Kind = "html_string"
	KindError          Kind = "error"
	KindReadError      Kind = "read_error"
	KindSourceLocation Kind = "source_location"
	KindRaw            Kind = "raw"
)

// Node is a renderer-agnostic description of how one value should be shown.
// The set of implementations is closed.
type Node interface {
	Kind() Kind
	node()
}

// Primitive is a boxed primitive, e.g. Number {[[PrimitiveValue]]: 3}.
type Primitive struct {
	TypeName string `json:"type_name"`
	Text     string `json:"text"`
}

// Literal is shown verbatim: booleans, null, undefined, symbols.
type Literal struct {
	Text string `json:"text"`
}

// NumberNode is a numeric value. Integer nodes carry alternate radix
// renderings when the value fits in an int64.
type NumberNode struct {
	Value   float64 `json:"-"`
	Text    string  `json:"text"`
	Integer bool    `json:"integer"`
	Hex     string  `json:"hex,omitempty"`
	Octal   string  `json:"octal,omitempty"`
	Binary  string  `json:"binary,omitempty"`
}

// ArrayChunk is a bounded group of consecutive array elements, or of
// lower-level chunks.
type ArrayChunk struct {
	Items       []Node `json:"items"`
	Label       string `json:"label"`
	StartIndex  int    `json:"start_index"`
	Indexed     bool   `json:"indexed"`
	TotalLength int    `json:"total_length,omitempty"`
}

// ObjectNode is an opaque object expanded lazily by the renderer.
type ObjectNode struct {
	NativeRef          any    `json:"-"`
	TypeName           string `json:"type_name"`
	Label              string `json:"label,omitempty"`
	IsPrimitiveWrapper bool   `json:"is_primitive_wrapper"`
}

// FunctionNode holds highlighted source. CollapsedPreview is set only when
// the source spans several lines.
type FunctionNode struct {
	HighlightedSource string `json:"highlighted_source"`
	CollapsedPreview  string `json:"collapsed_preview,omitempty"`
	IsExpandable      bool   `json:"is_expandable"`
}

// PromiseStatus is the settlement state of an async value at inspection time.
type PromiseStatus string

const (
	StatusPending  PromiseStatus = "pending"
	StatusResolved PromiseStatus = "resolved"
	StatusRejected PromiseStatus = "rejected"
)

// PromiseNode is a snapshot of an async value. SnapshotValue is the settled
// value (nil while pending) and Snapshot its rendering.
type PromiseNode struct {
	Status        PromiseStatus `json:"status"`
	SnapshotValue any           `json:"-"`
	Snapshot      Node          `json:"snapshot,omitempty"`
	NativeRef     any           `json:"-"`
}

// BufferNode is a byte buffer.
type BufferNode struct {
	NativeRef []byte `json:"bytes"`
}

// RegexNode is a regular expression.
type RegexNode struct {
	NativeRef any    `json:"-"`
	Pattern   string `json:"pattern"`
}

type StringNode struct {
	Text string `json:"text"`
}

// HTMLStringNode is a string that parses as an HTML document.
type HTMLStringNode struct {
	HTMLBody   string `json:"html_body"`
	SourceText string `json:"source_text"`
}

// ErrorDisplay is an error split into its first line and trace lines.
type ErrorDisplay struct {
	Headline   string   `json:"headline"`
	TraceLines []string `json:"trace_lines"`
}

// ReadError marks a property read that failed; Inner renders the caught error.
type ReadError struct {
	Inner Node `json:"inner"`
}

// SourceLocation points at the resolved file of a module.
type SourceLocation struct {
	Location string `json:"location"`
	Name     string `json:"name"`
	Found    bool   `json:"found"`
}

// Raw carries a value that no formatter claimed.
type Raw struct {
	Value any `json:"-"`
}

func (Primitive) Kind() Kind      { return KindPrimitive }
func (Literal) Kind() Kind        { return KindLiteral }
func (NumberNode) Kind() Kind     { return KindNumber }
func (ArrayChunk) Kind() Kind     { return KindArrayChunk }
func (ObjectNode) Kind() Kind     { return KindObject }
func (FunctionNode) Kind() Kind   { return KindFunction }
func (PromiseNode) Kind() Kind    { return KindPromise }
func (BufferNode) Kind() Kind     { return KindBuffer }
func (RegexNode) Kind() Kind      { return KindRegex }
func (StringNode) Kind() Kind     { return KindString }
func (HTMLStringNode) Kind() Kind { return KindHTMLString }
func (ErrorDisplay) Kind() Kind   { return KindError }
func (ReadError) Kind() Kind      { return KindReadError }
func (SourceLocation) Kind() Kind { return KindSourceLocation }
func (Raw) Kind() Kind            { return KindRaw }

func (Primitive) node()      {}
func (Literal) node()        {}
func (NumberNode) node()     {}
func (ArrayChunk) node()     {}
func (ObjectNode) node()     {}
func (FunctionNode) node()   {}
func (PromiseNode) node()    {}
func (BufferNode) node()     {}
func (RegexNode) node()      {}
func (StringNode) node()     {}
func (HTMLStringNode) node() {}
func (ErrorDisplay) node()   {}
func (ReadError) node()      {}
func (SourceLocation) node() {}
func (Raw) node()            {}

// Each variant encodes as its own fields plus a "kind" discriminator.

func (n Primitive) MarshalJSON() ([]byte, error) {
	type plain Primitive
	return tagged(n.Kind(), plain(n))
}

func (n Literal) MarshalJSON() ([]byte, error) {
	type plain Literal
	return tagged(n.Kind(), plain(n))
}

func (n NumberNode) MarshalJSON() ([]byte, error) {
	type plain NumberNode
	return tagged(n.Kind(), plain(n))
}

func (n ArrayChunk) MarshalJSON() ([]byte, error) {
	type plain ArrayChunk
	if n.Items == nil {
		n.Items = []Node{}
	}
	return tagged(n.Kind(), plain(n))
}

func (n ObjectNode) MarshalJSON() ([]byte, error) {
	type plain ObjectNode
	return tagged(n.Kind(), plain(n))
}

func (n FunctionNode) MarshalJSON() ([]byte, error) {
	type plain FunctionNode
	return tagged(n.Kind(), plain(n))
}

func (n PromiseNode) MarshalJSON() ([]byte, error) {
	type plain PromiseNode
	return tagged(n.Kind(), plain(n))
}

func (n BufferNode) MarshalJSON() ([]byte, error) {
	type plain BufferNode
	return tagged(n.Kind(), plain(n))
}

func (n RegexNode) MarshalJSON() ([]byte, error) {
	type plain RegexNode
	return tagged(n.Kind(), plain(n))
}

func (n StringNode) MarshalJSON() ([]byte, error) {
	type plain StringNode
	return tagged(n.Kind(), plain(n))
}

func (n HTMLStringNode) MarshalJSON() ([]byte, error) {
	type plain HTMLStringNode
	return tagged(n.Kind(), plain(n))
}

func (n ErrorDisplay) MarshalJSON() ([]byte, error) {
	type plain ErrorDisplay
	if n.TraceLines == nil {
		n.TraceLines = []string{}
	}
	return tagged(n.Kind(), plain(n))
}

func (n ReadError) MarshalJSON() ([]byte, error) {
	type plain ReadError
	return tagged(n.Kind(), plain(n))
}

func (n SourceLocation) MarshalJSON() ([]byte, error) {
	type plain SourceLocation
	return tagged(n.Kind(), plain(n))
}

func (n Raw) MarshalJSON() ([]byte, error) {
	return tagged(n.Kind(), struct {
		Text string `json:"text"`
	}{fmt.Sprint(n.Value)})
}

func tagged(k Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s node: %w", k, err)
	}
	head := []byte(`{"kind":"` + string(k) + `"`)
	if len(body) <= 2 {
		return append(head, '}'), nil
	}
	head = append(head, ',')
	return append(head, body[1:]...), nil
}
