package main

import (
	"fmt"
	"strings"

	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/render"
	"github.com/dgallion1/replout/internal/transform"
	"github.com/dgallion1/replout/internal/value"
)

const help = `:type <tag> <json>  show a value with a forced strategy (array, buffer, regexp, ...)
:source <module>    locate a module's source file
:quit               exit`

type console struct {
	tr    *transform.Transformer
	text  render.Text
	paths []string
}

// eval handles one complete input and returns the text to print.
func (c *console) eval(line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return c.show(c.value(line)), false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return "", true
	case ":help":
		return help, false
	case ":source":
		if rest == "" {
			return "usage: :source <module>", false
		}
		return c.text.Render(c.tr.LocateSource(rest, c.paths)), false
	case ":type":
		name, src, _ := strings.Cut(rest, " ")
		tag, ok := value.ParseTag(name)
		if !ok {
			return fmt.Sprintf("unknown type %q", name), false
		}
		return c.show(c.typed(src, tag)), false
	}
	return "unknown command. Type :help for commands.", false
}

func (c *console) value(src string) transform.Output {
	parsed := transform.ParseJSON(src)
	if !parsed.OK {
		return c.tr.Highlight(transform.None{}, "SyntaxError: "+parsed.Message)
	}
	return c.tr.Highlight(transform.Some{Value: parsed.Value}, "")
}

func (c *console) typed(src string, tag value.Tag) transform.Output {
	parsed := transform.ParseJSON(src)
	if !parsed.OK {
		return c.tr.Highlight(transform.None{}, "SyntaxError: "+parsed.Message)
	}
	n, ok := c.tr.DispatchAs(parsed.Value, tag)
	if !ok {
		n = display.Raw{Value: parsed.Value}
	}
	return transform.Output{FormattedOutput: n}
}

func (c *console) show(out transform.Output) string {
	return c.text.Render(out.FormattedOutput)
}

// incomplete reports whether src is a JSON text cut short, so the console
// should keep reading.
func incomplete(src string) bool {
	res := transform.ParseJSON(src)
	return !res.OK && res.Message == "unexpected end of JSON input"
}
