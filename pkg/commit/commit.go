package commit

import (
	"fmt"

	"github.com/vango-dev/fiber/pkg/effect"
	"github.com/vango-dev/fiber/pkg/fiber"
)

// Target is the host surface a pass is committed to.
type Target interface {
	// Insert places node in parent right after the sibling after, or first
	// when after is nil. A node already in parent is moved.
	Insert(parent, node, after any) error
	Remove(node any) error
	SyncAttrs(node any, props fiber.Props) error
	SetText(node any, text string) error
}

// Apply commits every effect of p to t, in order.
func Apply(p *fiber.Pass, t Target) error {
	for _, f := range p.Effects {
		if err := applyFiber(f, t); err != nil {
			return fmt.Errorf("commit %s: %w", f.Path(), err)
		}
		f.EffectTag = effect.Working
	}
	p.Root.Walk(func(f *fiber.Fiber) bool {
		f.Alternate = nil
		return true
	})
	return nil
}

func applyFiber(f *fiber.Fiber, t Target) error {
	tag := f.EffectTag
	if tag.Has(effect.NullRef) && f.Ref != nil {
		f.Ref.Current = nil
	}
	if tag.Has(effect.Detach) {
		return detach(f, t)
	}
	if !tag.Has(effect.Place) && !tag.Has(effect.Attr) && !tag.Has(effect.Content) &&
		!tag.Has(effect.Ref) && !tag.Has(effect.Hook) {
		return nil
	}

	if f.Kind.IsHost() {
		if tag.Has(effect.Place) && f.Parent != nil {
			if err := t.Insert(f.Parent.StateNode, f.StateNode, f.MountPoint); err != nil {
				return err
			}
		}
		if tag.Has(effect.Attr) {
			if err := t.SyncAttrs(f.StateNode, f.Props); err != nil {
				return err
			}
		}
		if tag.Has(effect.Content) {
			if err := t.SetText(f.StateNode, f.Text()); err != nil {
				return err
			}
		}
	}

	if tag.Has(effect.Ref) && f.Ref != nil {
		f.Ref.Current = f.StateNode
	}

	if tag.Has(effect.Hook) {
		runHook(f)
	}
	return nil
}

func detach(f *fiber.Fiber, t Target) error {
	if inst := f.Instance(); inst != nil {
		if h, ok := inst.(fiber.WillUnmounter); ok {
			h.ComponentWillUnmount()
		}
		if u := fiber.UpdaterOf(inst); u != nil {
			u.SetMounted(false)
		}
		return nil
	}
	if f.Kind.IsHost() && f.StateNode != nil {
		return t.Remove(f.StateNode)
	}
	return nil
}

func runHook(f *fiber.Fiber) {
	inst := f.Instance()
	if inst == nil {
		return
	}
	u := fiber.UpdaterOf(inst)
	if u == nil {
		return
	}
	if !u.IsMounted() {
		u.SetMounted(true)
		if h, ok := inst.(fiber.DidMounter); ok {
			h.ComponentDidMount()
		}
		return
	}
	if h, ok := inst.(fiber.DidUpdater); ok {
		h.ComponentDidUpdate(f.LastProps, f.LastState)
	}
}
