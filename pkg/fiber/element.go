package fiber

import "fmt"

const (
	// ChildrenProp holds an element's declared children.
	ChildrenProp = "children"

	// KeyProp and RefProp are lifted out of Props by H and C.
	KeyProp = "key"
	RefProp = "ref"

	// TextType is the Type of every text element.
	TextType = "#text"

	// RootType is the Type of root container fibers.
	RootType = "#root"
)

// Props holds an element's declared properties, including its children
// under ChildrenProp. Props are compared by identity, not by content.
type Props map[string]any

// Node is anything that can be declared as a child: *Element, *Fiber,
// string, numbers, bool, nil, or a slice of those.
type Node = any

// Ref receives the host object or instance a fiber is attached to.
type Ref struct {
	Current any
}

// Element is a declaration of one tree position.
type Element struct {
	Kind Kind

	// Type is the host tag (string) or the *ComponentType. Two declarations
	// are diff compatible only if their Types are equal, so Type must be
	// comparable.
	Type any

	// Key is the optional identity token. Empty means positional identity.
	Key string

	Props Props
	Ref   *Ref

	// Owner is the component instance whose render created the element.
	Owner Component
}

// H declares a host element. "key" and "ref" are lifted out of props.
func H(tag string, props Props, children ...Node) *Element {
	el := &Element{Kind: KindElement, Type: tag}
	el.Props = liftProps(el, props, children)
	return el
}

// Text declares a host text node.
func Text(s string) *Element {
	return &Element{
		Kind:  KindText,
		Type:  TextType,
		Props: Props{ChildrenProp: s},
	}
}

// C declares a component element.
func C(t *ComponentType, props Props, children ...Node) *Element {
	el := &Element{Kind: t.Kind(), Type: t}
	el.Props = liftProps(el, props, children)
	return el
}

func liftProps(el *Element, props Props, children []Node) Props {
	out := make(Props, len(props)+1)
	for k, v := range props {
		switch k {
		case KeyProp:
			if v != nil {
				el.Key = fmt.Sprint(v)
			}
		case RefProp:
			if ref, ok := v.(*Ref); ok {
				el.Ref = ref
			}
		default:
			out[k] = v
		}
	}
	switch len(children) {
	case 0:
	case 1:
		out[ChildrenProp] = children[0]
	default:
		out[ChildrenProp] = children
	}
	return out
}

// String describes the element as name#key.
func (e *Element) String() string {
	name := typeName(e.Type)
	if e.Key != "" {
		return name + "#" + e.Key
	}
	return name
}

func typeName(t any) string {
	switch v := t.(type) {
	case string:
		return v
	case *ComponentType:
		if v.Name != "" {
			return v.Name
		}
		return "Component"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", t)
	}
}
