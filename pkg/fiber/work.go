package fiber

import "github.com/vango-dev/fiber/pkg/effect"

// beginWork marks f as needing work and routes it by kind. pushed reports
// whether f pushed a context that must be popped when f completes.
func (r *Reconciler) beginWork(f *Fiber, st *passState) (pushed bool, err error) {
	if f.EffectTag == effect.None {
		f.EffectTag = effect.Working
	}
	st.stats.Fibers++
	r.logger.Debug("begin work", "fiber", f.String(), "kind", f.Kind.String())

	if f.Kind.IsHost() {
		st.stats.Hosts++
		return false, r.updateHost(f)
	}
	st.stats.Components++
	return r.updateComponent(f, st)
}
