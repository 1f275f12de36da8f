package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/fiber"
)

// snapshotNode is one node of a JSON tree snapshot. A JSON string is a
// text node; an object is an element:
//
//	{"tag": "ul", "attrs": {"class": "list"}, "children": [
//	  {"tag": "li", "key": "a", "children": ["A"]}
//	]}
type snapshotNode struct {
	Text     *string         `json:"-"`
	Tag      string          `json:"tag"`
	Key      string          `json:"key,omitempty"`
	Attrs    map[string]any  `json:"attrs,omitempty"`
	Children []*snapshotNode `json:"children,omitempty"`
}

func (n *snapshotNode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Text = &s
		return nil
	}
	type plain snapshotNode
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Tag == "" {
		return fmt.Errorf("element without a tag")
	}
	*n = snapshotNode(p)
	return nil
}

// Element converts the snapshot to a declared tree.
func (n *snapshotNode) Element() fiber.Node {
	if n.Text != nil {
		return *n.Text
	}
	props := fiber.Props{}
	for k, v := range n.Attrs {
		props[k] = v
	}
	if n.Key != "" {
		props[fiber.KeyProp] = n.Key
	}
	children := make([]fiber.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = c.Element()
	}
	return fiber.H(n.Tag, props, children...)
}

// parseSnapshot parses a snapshot: a single node or an array of root
// children.
func parseSnapshot(data []byte) (fiber.Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var nodes []*snapshotNode
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, errors.New("F020").Wrap(err)
		}
		out := make([]fiber.Node, len(nodes))
		for i, n := range nodes {
			out[i] = n.Element()
		}
		return out, nil
	}
	var n snapshotNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.New("F020").Wrap(err)
	}
	return n.Element(), nil
}

// loadSnapshot reads and parses the snapshot at path, a file or an
// s3://bucket/key object.
func loadSnapshot(ctx context.Context, path string) (fiber.Node, error) {
	data, err := readSource(ctx, path)
	if err != nil {
		return nil, errors.New("F021").WithDetail(path).Wrap(err)
	}
	tree, err := parseSnapshot(data)
	if err != nil {
		if fe, ok := err.(*errors.FiberError); ok {
			fe.WithDetail(path)
		}
		return nil, err
	}
	return tree, nil
}
