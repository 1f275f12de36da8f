package fiber

import (
	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/effect"
)

// updateHost materializes or reuses f's host object, records its mount
// point and reconciles its children.
func (r *Reconciler) updateHost(f *Fiber) error {
	if f.StateNode == nil {
		node, err := r.hosts.CreateHost(f)
		if err != nil {
			return errors.New("F001").WithFiber(f.Path()).Wrap(err)
		}
		f.StateNode = node
	}

	if f.Kind == KindElement && !f.Root {
		f.EffectTag = f.EffectTag.With(effect.Attr)
	}

	// The next host sibling inserts after this one.
	if f.Parent != nil {
		f.MountPoint = f.Parent.cursor
		f.Parent.cursor = f.StateNode
	}
	f.cursor = nil

	if f.Kind == KindText {
		prev := f.Alternate
		if prev == nil || prev.Text() != f.Text() {
			f.EffectTag = f.EffectTag.With(effect.Content)
		}
		return nil
	}
	if f.Props != nil {
		return r.diffChildren(f, f.Props[ChildrenProp])
	}
	return nil
}
