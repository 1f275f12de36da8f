package fiber

import "github.com/vango-dev/fiber/pkg/effect"

// detachFiber marks f and its subtree for disposal, appending each fiber
// to effects in pre-order so a subtree's root precedes its descendants.
func (r *Reconciler) detachFiber(f *Fiber, effects *[]*Fiber) {
	if f.Ref != nil {
		f.EffectTag = f.EffectTag.With(effect.NullRef)
	}
	f.EffectTag = f.EffectTag.With(effect.Detach)
	if f.Kind.IsComponent() {
		f.EffectTag = f.EffectTag.With(effect.Hook)
	}
	f.Disposed = true
	*effects = append(*effects, f)
	r.logger.Debug("detach", "fiber", f.String())

	for c := f.Child; c != nil; c = c.Sibling {
		r.detachFiber(c, effects)
	}
}
