package fiber

import (
	"fmt"

	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/effect"
)

// updateComponent runs the render-phase lifecycle of a component fiber and
// reconciles what it renders.
//
// A mounted instance whose update did not come from SetState or ForceUpdate
// gets ComponentWillReceiveProps when its props or context changed. If
// neither changed, render is skipped and the existing children are
// reconciled again instead. ShouldComponentUpdate returning false bails out:
// the previous children are carried over and the fiber is marked NoWork.
func (r *Reconciler) updateComponent(f *Fiber, st *passState) (pushed bool, err error) {
	ctype, ok := f.Type.(*ComponentType)
	if !ok {
		return false, errors.New("F004").WithFiber(f.Path()).
			Wrap(fmt.Errorf("type %T is not a *ComponentType", f.Type))
	}
	nextProps := f.Props
	nextContext := st.scope.Masked(ctype.ContextTypes)

	instance := f.Instance()
	if instance == nil {
		instance, err = r.instances.CreateInstance(f, nextContext)
		if err != nil {
			return false, errors.FromError(err, "F004").WithFiber(f.Path())
		}
		f.StateNode = instance
		instance.base().updater = newUpdater(instance, r.schedule)
	}
	b := instance.base()
	u := b.updater
	u.fiber = f
	u.hasError = false

	lastProps, lastState := b.Props, b.State
	f.LastProps, f.LastState = lastProps, lastState
	if f.Parent != nil {
		f.MountPoint = f.Parent.cursor
	}

	if p, ok := instance.(ChildContextProvider); ok {
		if c, ok := r.childContext(f, p, nextContext); ok {
			st.scope.PushContext(c)
			pushed = true
		}
	}

	pending, forced := u.takePending()
	nextState := lastState
	if len(pending) > 0 {
		nextState = mergeState(lastState, pending...)
	}
	stateTriggered := len(pending) > 0 || forced

	shouldUpdate := true
	willReceive := true
	u.receiving = &nextState
	defer func() { u.receiving = nil }()

	if u.mounted {
		propsChanged := !sameMap(lastProps, nextProps)
		if !stateTriggered {
			willReceive = propsChanged || !sameMap(b.Context, nextContext)
			if h, ok := instance.(WillReceivePropser); ok && willReceive {
				r.callHook(f, u, "ComponentWillReceiveProps", func() {
					h.ComponentWillReceiveProps(nextProps, nextContext)
				})
			}
		}
		if propsChanged {
			r.deriveState(f, instance, ctype, nextProps, lastState)
		}
		u.receiving = nil

		if h, ok := instance.(ShouldUpdater); ok && !forced {
			shouldUpdate = false
			r.callHook(f, u, "ShouldComponentUpdate", func() {
				shouldUpdate = h.ShouldComponentUpdate(nextProps, nextState, nextContext)
			})
		}
		if h, ok := instance.(WillUpdater); ok && shouldUpdate {
			r.callHook(f, u, "ComponentWillUpdate", func() {
				h.ComponentWillUpdate(nextProps, nextState, nextContext)
			})
		}
	} else {
		r.deriveState(f, instance, ctype, nextProps, State{})
		if h, ok := instance.(WillMounter); ok {
			r.callHook(f, u, "ComponentWillMount", h.ComponentWillMount)
		}
		u.receiving = nil
	}

	f.EffectTag = f.EffectTag.With(effect.Hook)
	b.Context = nextContext
	b.Props = nextProps
	b.State = nextState

	if !shouldUpdate {
		f.EffectTag = effect.NoWork
		cloneChildren(f)
		st.stats.BailOuts++
		r.logger.Debug("bail out", "fiber", f.String())
		return pushed, nil
	}

	var rendered Node
	if !willReceive {
		rendered = existingChildren(f)
		st.stats.RenderSkips++
		r.logger.Debug("render skipped", "fiber", f.String())
	} else {
		st.scope.renderAs(instance, func() {
			r.callHook(f, u, "Render", func() {
				rendered = instance.Render()
			})
			attributeOwner(rendered, st.scope.Owner())
		})
		if u.hasError {
			rendered = []Node{}
		}
	}
	if u.hasError {
		st.stats.Recovered++
	}

	return pushed, r.diffChildren(f, rendered)
}

// childContext merges the provider's child context over the provider's own
// masked context. A failing provider provides nothing.
func (r *Reconciler) childContext(f *Fiber, p ChildContextProvider, masked Context) (Context, bool) {
	c, err := guard(p.ChildContext)
	if err != nil {
		le := &LifecycleError{
			Hook:      "ChildContext",
			Component: f.Name,
			Err:       errors.New("F003").WithFiber(f.Path()).Wrap(err),
		}
		r.logger.Warn("child context failed", "fiber", f.String(), "error", err)
		r.reportError(le)
		return nil, false
	}
	merged := make(Context, len(masked)+len(c))
	for k, v := range masked {
		merged[k] = v
	}
	for k, v := range c {
		merged[k] = v
	}
	return merged, true
}

// deriveState runs ComponentType.DeriveState. A non-nil result goes
// through SetState; a failure is recorded on the instance.
func (r *Reconciler) deriveState(f *Fiber, instance Component, ctype *ComponentType, props Props, baseline State) {
	if ctype.DeriveState == nil {
		return
	}
	partial, err := guard(func() (State, error) {
		return ctype.DeriveState(props, baseline)
	})
	if err != nil {
		le := &LifecycleError{
			Hook:      "DeriveState",
			Component: f.Name,
			Err:       errors.New("F002").WithFiber(f.Path()).Wrap(err),
		}
		instance.base().updater.pushError(le)
		r.logger.Warn("derive state failed", "fiber", f.String(), "error", err)
		r.reportError(le)
		return
	}
	if partial != nil {
		instance.base().SetState(partial)
	}
}

// callHook runs a lifecycle hook, recording a panic on the instance.
func (r *Reconciler) callHook(f *Fiber, u *Updater, hook string, fn func()) {
	_, err := guard(func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
	if err == nil {
		return
	}
	le := &LifecycleError{
		Hook:      hook,
		Component: f.Name,
		Err:       errors.New("F007").WithFiber(f.Path()).Wrap(err),
	}
	u.pushError(le)
	r.logger.Warn("lifecycle hook failed", "fiber", f.String(), "hook", hook, "error", err)
	r.reportError(le)
}

func (r *Reconciler) reportError(le *LifecycleError) {
	if r.errorSink != nil {
		r.errorSink(le)
	}
}

// guard calls fn and turns a panic into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("panic: %w", e)
			} else {
				err = fmt.Errorf("panic: %v", rec)
			}
		}
	}()
	return fn()
}

// existingChildren returns the children reconciled on the previous pass,
// as a single fiber or an ordered slice.
func existingChildren(f *Fiber) Node {
	if f.Alternate == nil {
		return nil
	}
	first := f.Alternate.Child
	if first == nil {
		return nil
	}
	if first.Sibling == nil {
		return first
	}
	var out []*Fiber
	for c := first; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

// cloneChildren carries the previous pass's children over unchanged.
func cloneChildren(f *Fiber) {
	prev := f.Alternate
	if prev == nil {
		return
	}
	f.children = prev.children
	if prev.Child != nil {
		f.Child = prev.Child
	}
	// Keep the insertion cursor past the carried-over host nodes.
	if f.Parent != nil {
		if last := lastHostNode(f.Child); last != nil {
			f.Parent.cursor = last
		}
	}
}

// lastHostNode returns the host object of the last top-level host node
// in the sibling chain starting at first.
func lastHostNode(first *Fiber) any {
	var last any
	for c := first; c != nil; c = c.Sibling {
		if c.Kind.IsHost() {
			last = c.StateNode
		} else if n := lastHostNode(c.Child); n != nil {
			last = n
		}
	}
	return last
}

// attributeOwner stamps owner on rendered elements that have none,
// including elements passed as children to other components.
func attributeOwner(n Node, owner Component) {
	switch v := n.(type) {
	case *Element:
		if v == nil || v.Owner != nil {
			return
		}
		v.Owner = owner
		attributeOwner(v.Props[ChildrenProp], owner)
	case []Node:
		for _, c := range v {
			attributeOwner(c, owner)
		}
	case []*Element:
		for _, c := range v {
			attributeOwner(c, owner)
		}
	}
}
