package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serialises nodes to HTML. Text and attribute values are escaped by
// the serialiser.
func Render(nodes ...*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		// html.Render only fails on writer errors; strings.Builder never fails.
		_ = html.Render(&b, toHTML(n))
	}
	return b.String()
}

func toHTML(n *Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, a := range n.Attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}
