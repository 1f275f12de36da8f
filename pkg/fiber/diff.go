package fiber

import (
	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/effect"
)

// diffChildren reconciles parent's previous children against children.
//
// Matching is by collection key first, then by Type. A previous child with
// no type-compatible match is torn down. A matched child whose Type and Key
// both agree hands its StateNode to the new fiber and becomes its Alternate.
func (r *Reconciler) diffChildren(parent *Fiber, children Node) error {
	var oldFibers *ChildMap
	if parent.Alternate != nil {
		oldFibers = parent.Alternate.children
	}
	newElems, err := r.normalizer.Normalize(children, parent)
	if err != nil {
		return errors.FromError(err, "F005")
	}

	host := hostParent(parent)

	matched := make(map[string]*Fiber, oldFibers.Len())
	var staleRefs []*Fiber
	oldFibers.Each(func(key string, old *Fiber) {
		if el, ok := newElems.Get(key); ok && el.Type == old.Type {
			matched[key] = old
			if old.Ref != el.Ref {
				old.EffectTag = old.EffectTag.With(effect.NullRef)
				staleRefs = append(staleRefs, old)
			}
			return
		}
		r.detachFiber(old, &parent.effects)
	})

	next := NewKeyedMap[*Fiber]()
	var prev *Fiber
	index := 0
	newElems.Each(func(key string, el *Element) {
		f := newFiber(el)
		f.mapKey = key
		f.Parent = host
		if old := matched[key]; old != nil {
			if f.Key == "" {
				f.Key = old.Key
			}
			if isSameNode(old, f) {
				f.StateNode = old.StateNode
				f.Alternate = old
			} else {
				r.detachFiber(old, &parent.effects)
			}
		}
		if f.Kind.IsHost() {
			f.EffectTag = f.EffectTag.With(effect.Place)
		}
		if f.Ref != nil {
			f.EffectTag = f.EffectTag.With(effect.Ref)
		}
		f.Index = index
		index++
		f.Return = parent

		if prev != nil {
			prev.Sibling = f
		} else {
			parent.Child = f
		}
		prev = f
		next.Put(key, f)
	})
	if prev != nil {
		prev.Sibling = nil
	} else {
		parent.Child = nil
	}
	parent.children = next

	// A stale ref on a fiber that was torn down above is already queued.
	for _, old := range staleRefs {
		if !old.Disposed {
			parent.effects = append(parent.effects, old)
		}
	}
	return nil
}

func isSameNode(a, b *Fiber) bool {
	return a.Type == b.Type && a.Key == b.Key
}

// hostParent returns the nearest host element at or above f. Component
// fibers never own host children.
func hostParent(f *Fiber) *Fiber {
	for p := f; p != nil; p = p.Return {
		if p.Kind == KindElement {
			return p
		}
	}
	return nil
}
