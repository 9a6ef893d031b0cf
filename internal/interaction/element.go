// Package interaction turns pointer, key and window events on the icon
// grid into tooltip changes, with hover on desktop and double-tap on
// mobile.
package interaction

import (
	"slices"
	"strings"
	"sync"
)

// Element is the part of a document node the interaction layer reads,
// plus class toggling for the selection marker.
type Element interface {
	Tag() string
	Parent() Element
	HasClass(name string) bool
	Attr(name string) (string, bool)
	Text() string
	AddClass(name string)
	RemoveClass(name string)
}

// Node is an in-memory Element. Hosts that have no DOM build the icon grid
// out of Nodes.
type Node struct {
	tag      string
	parent   *Node
	children []*Node
	attrs    map[string]string
	text     string

	mu      sync.RWMutex
	classes []string
}

func NewNode(tag string, classes ...string) *Node {
	return &Node{
		tag:     strings.ToLower(tag),
		attrs:   make(map[string]string),
		classes: slices.Clone(classes),
	}
}

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(name, value string) *Node {
	n.attrs[name] = value
	return n
}

// SetText sets the node's own text and returns n for chaining.
func (n *Node) SetText(text string) *Node {
	n.text = text
	return n
}

// Append adopts children in order and returns n for chaining.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Tag() string {
	return n.tag
}

func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) HasClass(name string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Contains(n.classes, name)
}

func (n *Node) AddClass(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !slices.Contains(n.classes, name) {
		n.classes = append(n.classes, name)
	}
}

func (n *Node) RemoveClass(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == name })
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// Text is the concatenated text of n and its descendants, in document
// order.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	b.WriteString(n.text)
	for _, c := range n.children {
		c.writeText(b)
	}
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Matcher reports whether an element plays a role.
type Matcher func(Element) bool

func WithTag(tag string) Matcher {
	tag = strings.ToLower(tag)
	return func(el Element) bool { return el.Tag() == tag }
}

func WithClass(name string) Matcher {
	return func(el Element) bool { return el.HasClass(name) }
}

func WithAttr(name string) Matcher {
	return func(el Element) bool {
		_, ok := el.Attr(name)
		return ok
	}
}

// All matches elements that satisfy every matcher.
func All(matchers ...Matcher) Matcher {
	return func(el Element) bool {
		for _, m := range matchers {
			if !m(el) {
				return false
			}
		}
		return true
	}
}

// Closest returns el or its nearest ancestor that matches, or nil.
func Closest(el Element, match Matcher) Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		if match(cur) {
			return cur
		}
	}
	return nil
}
