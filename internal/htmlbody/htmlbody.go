package htmlbody

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Extract reports whether s is an HTML document and, if so, returns the
// serialized contents of its <body>. A string counts as HTML only when its
// body holds at least one element; plain text that merely mentions a '<'
// does not qualify.
func Extract(s string) (string, bool) {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return "", false
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", false
	}

	body := findBody(doc)
	if body == nil || !hasElement(body) {
		return "", false
	}

	var buf strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", false
		}
	}
	return buf.String(), true
}

// TextContent returns the concatenated text of an HTML fragment, skipping
// script and style elements.
func TextContent(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return fragment
	}
	var buf strings.Builder
	for _, n := range nodes {
		textContent(n, &buf)
	}
	return strings.TrimSpace(buf.String())
}

func textContent(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(c, buf)
	}
}

func hasElement(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
