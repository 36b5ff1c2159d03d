package highlight

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colorizes source text. Implementations never fail: when
// highlighting is impossible they return src unchanged.
type Highlighter interface {
	Highlight(src string) string
}

// Func adapts a plain function to Highlighter.
type Func func(src string) string

func (f Func) Highlight(src string) string { return f(src) }

// Plain returns source text untouched.
var Plain Highlighter = Func(func(src string) string { return src })

// Chroma highlights with a chroma lexer, style and formatter.
type Chroma struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
	log       *slog.Logger
}

// NewChroma builds a highlighter for language using the named style and
// formatter. "html" produces inline-styled spans without a surrounding
// <pre>; any other formatter name is looked up in chroma's registry.
func NewChroma(language, style, formatter string, log *slog.Logger) (*Chroma, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, fmt.Errorf("unknown highlight language: %s", language)
	}
	st, ok := styles.Registry[strings.ToLower(style)]
	if !ok {
		return nil, fmt.Errorf("unknown highlight style: %s", style)
	}

	var f chroma.Formatter
	if strings.EqualFold(formatter, "html") {
		f = html.New(html.WithClasses(false), html.PreventSurroundingPre(true))
	} else if f, ok = formatters.Registry[formatter]; !ok {
		return nil, fmt.Errorf("unknown highlight formatter: %s", formatter)
	}

	if log == nil {
		log = slog.Default()
	}
	return &Chroma{
		lexer:     chroma.Coalesce(lexer),
		style:     st,
		formatter: f,
		log:       log,
	}, nil
}

func (c *Chroma) Highlight(src string) string {
	it, err := c.lexer.Tokenise(nil, src)
	if err != nil {
		c.log.Debug("tokenise failed", "error", err)
		return src
	}
	var buf strings.Builder
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		c.log.Debug("format failed", "error", err)
		return src
	}
	return buf.String()
}
