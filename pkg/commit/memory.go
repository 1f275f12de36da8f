package commit

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/fiber/pkg/fiber"
)

// Node is a host object in a Memory target.
type Node struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Children []*Node

	parent *Node
}

// Parent returns the node n is attached to, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Memory is an in-memory host: it creates Nodes for host fibers and
// applies commits to them.
type Memory struct {
	Container *Node

	// Created counts nodes made by CreateHost.
	Created int

	// Fail, when set, makes CreateHost fail for fibers it returns an error for.
	Fail func(f *fiber.Fiber) error
}

// NewMemory creates a Memory with an empty container.
func NewMemory() *Memory {
	return &Memory{Container: &Node{Tag: fiber.RootType}}
}

// CreateHost implements fiber.HostFactory.
func (m *Memory) CreateHost(f *fiber.Fiber) (any, error) {
	if m.Fail != nil {
		if err := m.Fail(f); err != nil {
			return nil, err
		}
	}
	m.Created++
	if f.Kind == fiber.KindText {
		return &Node{Tag: fiber.TextType}, nil
	}
	tag, ok := f.Type.(string)
	if !ok {
		return nil, fmt.Errorf("host type %T is not a tag", f.Type)
	}
	return &Node{Tag: tag, Attrs: map[string]string{}}, nil
}

// Insert implements Target.
func (m *Memory) Insert(parent, node, after any) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	n, err := asNode(node)
	if err != nil {
		return err
	}
	detachNode(n)

	at := 0
	if after != nil {
		a, err := asNode(after)
		if err != nil {
			return err
		}
		idx := indexOf(p, a)
		if idx < 0 {
			return fmt.Errorf("insert: mount point %s is not a child of %s", a.Tag, p.Tag)
		}
		at = idx + 1
	}
	p.Children = append(p.Children, nil)
	copy(p.Children[at+1:], p.Children[at:])
	p.Children[at] = n
	n.parent = p
	return nil
}

// Remove implements Target.
func (m *Memory) Remove(node any) error {
	n, err := asNode(node)
	if err != nil {
		return err
	}
	detachNode(n)
	return nil
}

// SyncAttrs implements Target. Children and function values are skipped.
func (m *Memory) SyncAttrs(node any, props fiber.Props) error {
	n, err := asNode(node)
	if err != nil {
		return err
	}
	attrs := make(map[string]string, len(props))
	for k, v := range props {
		if k == fiber.ChildrenProp || v == nil {
			continue
		}
		if isFunc(v) {
			continue
		}
		attrs[k] = fmt.Sprint(v)
	}
	n.Attrs = attrs
	return nil
}

// SetText implements Target.
func (m *Memory) SetText(node any, text string) error {
	n, err := asNode(node)
	if err != nil {
		return err
	}
	n.Text = text
	return nil
}

// HTML serializes the node's children.
func (n *Node) HTML() string {
	var b strings.Builder
	for _, c := range n.Children {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n.Tag == fiber.TextType {
		b.WriteString(escapeHTML(n.Text))
		return
	}
	b.WriteString("<")
	b.WriteString(n.Tag)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(n.Attrs[k]))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if voidElements[n.Tag] {
		return
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

func asNode(v any) (*Node, error) {
	n, ok := v.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("host object %T is not a *commit.Node", v)
	}
	return n, nil
}

func detachNode(n *Node) {
	if n.parent == nil {
		return
	}
	if idx := indexOf(n.parent, n); idx >= 0 {
		n.parent.Children = append(n.parent.Children[:idx], n.parent.Children[idx+1:]...)
	}
	n.parent = nil
}

func indexOf(parent, child *Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

func isFunc(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Func
}
