// Package markup is a small typed tree for the documents the templates
// produce. Nodes carry a structural Role so that pagination and tests can
// query the tree's shape instead of matching strings.
package markup

import "strings"

// Role marks what a node means to the layout, independent of its tag.
type Role int

const (
	RoleNone Role = iota
	// RoleHeader is a document-level header block (name, title, photo).
	RoleHeader
	// RoleHeading is a standalone name/title heading.
	RoleHeading
	RoleSection
	RoleSectionTitle
	RoleEntry
	RoleField
	// RoleContent is the flow area that gets paginated.
	RoleContent
	// RoleChrome is per-page decoration: mini header, footer, sidebar.
	RoleChrome
)

func (r Role) String() string {
	switch r {
	case RoleHeader:
		return "header"
	case RoleHeading:
		return "heading"
	case RoleSection:
		return "section"
	case RoleSectionTitle:
		return "section-title"
	case RoleEntry:
		return "entry"
	case RoleField:
		return "field"
	case RoleContent:
		return "content"
	case RoleChrome:
		return "chrome"
	default:
		return "none"
	}
}

// Attr is one element attribute. Order is preserved on output.
type Attr struct {
	Key string
	Val string
}

// Node is an element or, when Tag is empty, a text node.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Role     Role
	Children []*Node
}

// El builds an element. Nil children are skipped so that optional blocks can
// be passed inline.
func El(tag string, children ...*Node) *Node {
	n := &Node{Tag: tag}
	return n.Append(children...)
}

// Text builds a text node.
func Text(s string) *Node {
	return &Node{Text: s}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == "" }

// Append adds non-nil children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Attr sets an attribute, replacing an existing one with the same key.
func (n *Node) Attr(key, val string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return n
}

// Class appends to the class attribute.
func (n *Node) Class(class string) *Node {
	if cur, ok := n.Get("class"); ok && cur != "" {
		return n.Attr("class", cur+" "+class)
	}
	return n.Attr("class", class)
}

// Style appends declarations to the style attribute.
func (n *Node) Style(style string) *Node {
	style = strings.TrimSpace(style)
	if style == "" {
		return n
	}
	if cur, ok := n.Get("style"); ok && cur != "" {
		return n.Attr("style", strings.TrimRight(cur, "; ")+"; "+style)
	}
	return n.Attr("style", style)
}

// As sets the node's role.
func (n *Node) As(role Role) *Node {
	n.Role = role
	return n
}

// Get returns an attribute value.
func (n *Node) Get(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether class is one of the node's classes.
func (n *Node) HasClass(class string) bool {
	cur, _ := n.Get("class")
	for _, c := range strings.Fields(cur) {
		if c == class {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Tag: n.Tag, Text: n.Text, Role: n.Role}
	if len(n.Attrs) > 0 {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}
