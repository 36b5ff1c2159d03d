// Package render turns display trees into plain or ANSI-colored text for a
// terminal.
package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/htmlbody"
	"github.com/dgallion1/replout/internal/transform"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorGray  = "\033[90m"
)

// DefaultDepth is how many object levels Text expands.
const DefaultDepth = 2

// maxBufferBytes caps how many bytes of a buffer are printed.
const maxBufferBytes = 50

// Expander reads the properties of a live object. *transform.Transformer
// implements it.
type Expander interface {
	Expand(obj any) []transform.Property
}

// Text renders display trees. Objects are expanded through the Expander,
// one level at a time, up to Depth levels.
type Text struct {
	Expander Expander
	Depth    int
	Color    bool
}

func (t Text) colorize(s, c string) string {
	if !t.Color {
		return s
	}
	return c + s + colorReset
}

// Render returns the text form of n.
func (t Text) Render(n display.Node) string {
	var b strings.Builder
	o := &out{b: &b, t: t, seen: make(map[uintptr]bool)}
	o.node(n, 0)
	return b.String()
}

type out struct {
	b     *strings.Builder
	t     Text
	depth int
	seen  map[uintptr]bool
}

func (o *out) write(s string)        { o.b.WriteString(s) }
func (o *out) color(s, c string)     { o.b.WriteString(o.t.colorize(s, c)) }
func (o *out) nl()                   { o.b.WriteByte('\n') }
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }
func (o *out) pad() {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("  ")
	}
}

// node writes n at the current position. level counts expanded objects
// above n.
func (o *out) node(n display.Node, level int) {
	switch n := n.(type) {
	case display.Literal:
		o.color(n.Text, colorBlue)
	case display.NumberNode:
		o.color(n.Text, colorBlue)
	case display.Primitive:
		o.color("["+n.TypeName+": "+n.Text+"]", colorBlue)
	case display.StringNode:
		o.color(quoteString(n.Text), colorGreen)
	case display.HTMLStringNode:
		o.htmlString(n)
	case display.RegexNode:
		o.color(n.Pattern, colorRed)
	case display.BufferNode:
		o.buffer(n)
	case display.FunctionNode:
		o.function(n, level)
	case display.ArrayChunk:
		o.array(n, level)
	case display.ObjectNode:
		o.object(n, level)
	case display.PromiseNode:
		o.promise(n, level)
	case display.ErrorDisplay:
		o.errorDisplay(n)
	case display.ReadError:
		o.color("[Exception: ", colorRed)
		o.node(n.Inner, level+1)
		o.color("]", colorRed)
	case display.SourceLocation:
		o.sourceLocation(n)
	case display.Raw:
		o.write(fmt.Sprint(n.Value))
	case nil:
		o.color("undefined", colorGray)
	default:
		o.write(fmt.Sprintf("<%s>", n.Kind()))
	}
}

func (o *out) htmlString(n display.HTMLStringNode) {
	text := strings.TrimSpace(htmlbody.TextContent(n.HTMLBody))
	o.color("<html> ", colorGray)
	o.color(quoteString(text), colorGreen)
}

func (o *out) buffer(n display.BufferNode) {
	o.write("<Buffer")
	for i, c := range n.NativeRef {
		if i == maxBufferBytes {
			o.write(fmt.Sprintf(" ... %d more bytes", len(n.NativeRef)-maxBufferBytes))
			break
		}
		o.write(fmt.Sprintf(" %02x", c))
	}
	o.write(">")
}

// function shows the full source at the top level and the collapsed preview
// when nested.
func (o *out) function(n display.FunctionNode, level int) {
	if level > 0 && n.IsExpandable {
		o.write(n.CollapsedPreview)
		o.color(" …", colorGray)
		return
	}
	o.write(n.HighlightedSource)
}

func (o *out) array(n display.ArrayChunk, level int) {
	o.color(n.Label, colorGray)
	if len(n.Items) == 0 {
		o.write(" []")
		return
	}
	o.write(" [")
	o.nl()
	o.withIndent(func() {
		for i, item := range n.Items {
			o.pad()
			if n.Indexed {
				o.color(strconv.Itoa(n.StartIndex+i)+": ", colorGray)
			}
			o.node(item, level)
			o.nl()
		}
	})
	o.pad()
	o.write("]")
}

func (o *out) object(n display.ObjectNode, level int) {
	o.color(n.TypeName+n.Label, colorGray)
	if o.t.Expander == nil {
		return
	}
	if level >= o.depthLimit() {
		o.write(" {…}")
		return
	}

	if id, ok := identity(n.NativeRef); ok {
		if o.seen[id] {
			o.color(" [Circular]", colorGray)
			return
		}
		o.seen[id] = true
		defer delete(o.seen, id)
	}

	props := o.t.Expander.Expand(n.NativeRef)
	if len(props) == 0 {
		o.write(" {}")
		return
	}
	o.write(" {")
	o.nl()
	o.withIndent(func() {
		for _, p := range props {
			o.pad()
			o.write(p.Name + ": ")
			o.node(p.Node, level+1)
			o.nl()
		}
	})
	o.pad()
	o.write("}")
}

func (o *out) promise(n display.PromiseNode, level int) {
	o.write("Promise {")
	if n.Status == display.StatusPending {
		o.color("<pending>", colorGray)
	} else {
		if n.Status == display.StatusRejected {
			o.color("<rejected> ", colorRed)
		}
		o.node(n.Snapshot, level+1)
	}
	o.write("}")
}

func (o *out) errorDisplay(n display.ErrorDisplay) {
	o.color(n.Headline, colorRed)
	for _, l := range n.TraceLines {
		o.nl()
		o.color(l, colorGray)
	}
}

func (o *out) sourceLocation(n display.SourceLocation) {
	if !n.Found {
		o.color("module not found: "+n.Name, colorRed)
		return
	}
	o.write(n.Name + " → ")
	o.color(n.Location, colorGreen)
}

func (o *out) depthLimit() int {
	if o.t.Depth <= 0 {
		return DefaultDepth
	}
	return o.t.Depth
}

// identity returns an address for reference values so that an object
// reachable from itself is printed once.
func identity(v any) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
