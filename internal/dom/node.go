package dom

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
)

// Node is the in-memory Element implementation. It carries enough of an HTML
// element (tag, attributes, text) for the page builder to serialize a whole
// generated document from it.
type Node struct {
	mu       sync.Mutex
	tag      string
	id       string
	attrs    map[string]string
	text     string
	children []*Node
	width    float64
}

// NewNode creates a detached node.
func NewNode(tag, id string) *Node {
	return &Node{tag: tag, id: id, attrs: make(map[string]string)}
}

// ID returns the node's id.
func (n *Node) ID() string {
	return n.id
}

// SetClientWidth fixes the width Find-ing renderers will observe. Zero means
// "no layout information".
func (n *Node) SetClientWidth(width float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.width = width
}

// ClientWidth returns the configured rendered width.
func (n *Node) ClientWidth() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.width
}

// SetAttr sets an attribute on the node.
func (n *Node) SetAttr(key, value string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attrs[key] = value
	return n
}

// SetText replaces the node's text content.
func (n *Node) SetText(text string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.text = text
	return n
}

// Find returns the descendant node with the given id, or nil. The search is
// depth-first, matching how a document lookup resolves a unique id.
func (n *Node) Find(id string) Element {
	if found := n.find(id); found != nil {
		return found
	}
	// A typed nil inside a non-nil interface would defeat nil checks at the
	// call site.
	return nil
}

func (n *Node) find(id string) *Node {
	n.mu.Lock()
	children := append([]*Node(nil), n.children...)
	n.mu.Unlock()

	for _, child := range children {
		if child.id == id {
			return child
		}
		if found := child.find(id); found != nil {
			return found
		}
	}
	return nil
}

// CreateChild appends a new div child with the given id.
func (n *Node) CreateChild(id string) Element {
	return n.AppendTag("div", id)
}

// AppendTag appends a child with an explicit tag and returns it.
func (n *Node) AppendTag(tag, id string) *Node {
	child := NewNode(tag, id)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, child)
	return child
}

// Clear removes all children.
func (n *Node) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children)
}

// HTML serializes the subtree. Attribute order is stable so generated pages
// diff cleanly between runs.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb, 0)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder, depth int) {
	n.mu.Lock()
	tag, id, text := n.tag, n.id, n.text
	attrs := make(map[string]string, len(n.attrs))
	for k, v := range n.attrs {
		attrs[k] = v
	}
	children := append([]*Node(nil), n.children...)
	n.mu.Unlock()

	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteString("<" + tag)
	if id != "" {
		fmt.Fprintf(sb, " id=%q", id)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, " %s=%q", k, attrs[k])
	}
	sb.WriteString(">")

	// Script and style bodies are emitted verbatim; everything else is
	// escaped text content.
	if text != "" {
		if tag == "script" || tag == "style" {
			sb.WriteString("\n" + text + "\n" + indent)
		} else {
			sb.WriteString(html.EscapeString(text))
		}
	}

	if len(children) > 0 {
		sb.WriteString("\n")
		for _, child := range children {
			child.writeHTML(sb, depth+1)
			sb.WriteString("\n")
		}
		sb.WriteString(indent)
	}

	sb.WriteString("</" + tag + ">")
}
