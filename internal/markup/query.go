package markup

import "strings"

// Find returns the first node with the given role in depth-first order.
func Find(root *Node, role Role) *Node {
	if root == nil {
		return nil
	}
	if root.Role == role {
		return root
	}
	for _, c := range root.Children {
		if found := Find(c, role); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node with the given role in depth-first order.
// Matching nodes are not descended into.
func FindAll(root *Node, role Role) []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Role == role {
			out = append(out, n)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}

// Children returns the direct children of n with the given role.
func Children(n *Node, role Role) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}

// PlainText concatenates the text content of n with whitespace collapsed.
func PlainText(n *Node) string {
	var b strings.Builder
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsText() {
			b.WriteString(n.Text)
			b.WriteByte(' ')
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
