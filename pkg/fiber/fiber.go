package fiber

import (
	"github.com/google/uuid"

	"github.com/vango-dev/fiber/pkg/effect"
)

// Fiber is the persistent unit of work for one tree position.
type Fiber struct {
	Element

	// ID identifies the fiber in logs and devtools.
	ID string

	// Name is the component name or host tag.
	Name string

	// StateNode is the component instance or host object this fiber owns.
	// It moves to a successor fiber only through alternate matching.
	StateNode any

	// Parent is the nearest host ancestor (component fibers are skipped);
	// Return is the immediate logical parent.
	Parent  *Fiber
	Return  *Fiber
	Child   *Fiber
	Sibling *Fiber
	Index   int

	// Alternate is the fiber this one continues from the previous pass.
	// The commit phase clears it.
	Alternate *Fiber

	EffectTag effect.Tag

	// Disposed is set once by teardown and never cleared.
	Disposed bool

	// Root marks a root container. Roots never get attribute syncs.
	Root bool

	// MountPoint is the host object this fiber's host node is inserted
	// after. Nil means first in its host parent.
	MountPoint any

	// LastProps and LastState are the instance's props and state before
	// this pass touched them.
	LastProps Props
	LastState State

	// mapKey is the key this fiber has in its parent's ChildMap.
	mapKey string

	// children is this pass's keyed child collection, read by the next diff.
	children *ChildMap

	// effects collects descendants needing commit work.
	effects []*Fiber

	// cursor is the host node the next placed child inserts after.
	cursor any
}

func newFiber(el *Element) *Fiber {
	return &Fiber{
		Element:   *el,
		ID:        uuid.NewString(),
		Name:      typeName(el.Type),
		EffectTag: effect.Working,
	}
}

// Children returns the keyed children reconciled on this fiber.
func (f *Fiber) Children() *ChildMap {
	return f.children
}

// Effects returns the fibers collected below f that need commit work.
func (f *Fiber) Effects() []*Fiber {
	return f.effects
}

// Instance returns the component instance, or nil for host fibers.
func (f *Fiber) Instance() Component {
	c, _ := f.StateNode.(Component)
	return c
}

// Text returns the content of a text fiber.
func (f *Fiber) Text() string {
	s, _ := f.Props[ChildrenProp].(string)
	return s
}

// String describes the fiber as name#key.
func (f *Fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	if f.Key != "" {
		return f.Name + "#" + f.Key
	}
	return f.Name
}

// Path describes the fiber and its logical ancestors, root first.
func (f *Fiber) Path() string {
	if f.Return == nil {
		return f.String()
	}
	return f.Return.Path() + " > " + f.String()
}

// Walk calls fn for f and every descendant in depth-first pre-order.
// Returning false skips the fiber's children.
func (f *Fiber) Walk(fn func(*Fiber) bool) {
	if f == nil || !fn(f) {
		return
	}
	for c := f.Child; c != nil; c = c.Sibling {
		c.Walk(fn)
	}
}
