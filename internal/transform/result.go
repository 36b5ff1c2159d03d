package transform

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/value"
)

// Result is the outcome of evaluating one expression: Some on success,
// None when evaluation failed and only diagnostic text exists.
type Result interface {
	isResult()
}

// Some holds the value an expression produced.
type Some struct {
	Value any
}

// None marks a failed evaluation. It carries nothing; the diagnostic text is
// supplied when highlighting.
type None struct{}

func (Some) isResult() {}
func (None) isResult() {}

// Output is what a Result highlights to. Error is true only on the None
// path; an error value held by Some is displayed the same way but reports
// false.
type Output struct {
	FormattedOutput display.Node `json:"formatted_output"`
	Error           bool         `json:"error"`
}

// Highlight renders r. diagnostic is used only when r is None.
func (t *Transformer) Highlight(r Result, diagnostic string) Output {
	if s, ok := r.(Some); ok {
		return s.Highlight(t)
	}
	return None{}.Highlight(diagnostic)
}

// Highlight splits diagnostic into headline and trace.
func (None) Highlight(diagnostic string) Output {
	return Output{FormattedOutput: SplitError(diagnostic), Error: true}
}

// Highlight renders the held value. Error values are split from their stack
// text; everything else goes through the dispatcher.
func (s Some) Highlight(t *Transformer) Output {
	if err, ok := s.Value.(error); ok && value.IsError(s.Value) {
		return Output{FormattedOutput: SplitError(StackText(err))}
	}
	return Output{FormattedOutput: t.Render(s.Value)}
}

// SplitError turns multi-line error text into an ErrorDisplay: the first
// line is the headline, the rest the trace.
func SplitError(text string) display.ErrorDisplay {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return display.ErrorDisplay{Headline: lines[0], TraceLines: lines[1:]}
}

// Stacker is implemented by error values that carry their own stack text,
// such as errors raised inside an interpreter.
type Stacker interface {
	Stack() string
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// StackText renders err as "<Name>: <message>" followed by one
// "    at <func> (<file>:<line>)" line per captured frame.
func StackText(err error) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("Error: <unprintable %T>", err)
		}
	}()

	if s, ok := err.(Stacker); ok {
		return s.Stack()
	}

	var b strings.Builder
	b.WriteString(value.ErrorName(err))
	b.WriteString(": ")
	b.WriteString(err.Error())

	var st stackTracer
	if errors.As(err, &st) {
		for _, f := range st.StackTrace() {
			fmt.Fprintf(&b, "\n    at %n (%s:%d)", f, f, f)
		}
	}
	return b.String()
}
