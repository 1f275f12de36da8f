package fiber

import (
	"fmt"
	"reflect"
)

// State is a component's state. Updates are shallow merged.
type State map[string]any

// Context is the inherited context visible to a component.
type Context map[string]any

// emptyContext is handed to every component that declares no context keys.
// It is shared and must not be mutated.
var emptyContext = Context{}

// ComponentType declares a user component. Exactly one of New and Render
// must be set.
type ComponentType struct {
	// Name is used in logs, errors and fiber descriptions.
	Name string

	// New constructs an instance for a class component.
	New func(props Props, ctx Context) Component

	// Render makes a stateless function component.
	Render func(props Props, ctx Context) Node

	// ContextTypes lists the context keys the component reads.
	ContextTypes []string

	// DeriveState computes state from incoming props. A nil result leaves
	// state unchanged.
	DeriveState func(props Props, state State) (State, error)
}

// Kind returns KindClass when New is set and KindFunction otherwise.
func (t *ComponentType) Kind() Kind {
	if t.New != nil {
		return KindClass
	}
	return KindFunction
}

// Component is a mounted component instance. Implementations embed Base.
type Component interface {
	Render() Node
	base() *Base
}

// Base holds the fields every component instance carries. Embed it.
type Base struct {
	Props   Props
	State   State
	Context Context

	updater *Updater
}

func (b *Base) base() *Base { return b }

// SetState queues a partial state update for the next pass. Inside
// ComponentWillReceiveProps, ComponentWillMount and DeriveState the update
// applies to the pass already in progress.
func (b *Base) SetState(partial State) {
	if partial == nil {
		return
	}
	if b.updater == nil {
		b.State = mergeState(b.State, partial)
		return
	}
	b.updater.enqueueSetState(partial)
}

// ForceUpdate makes the next pass re-render the component and skip
// ShouldComponentUpdate.
func (b *Base) ForceUpdate() {
	if b.updater != nil {
		b.updater.enqueueForceUpdate()
	}
}

// Updater returns the instance's update coordinator, or nil before the
// instance has been reconciled.
func (b *Base) Updater() *Updater {
	return b.updater
}

// UpdaterOf returns c's update coordinator, or nil before c has been
// reconciled.
func UpdaterOf(c Component) *Updater {
	return c.base().updater
}

// Optional lifecycle hooks. The reconciler calls the render-phase hooks;
// the commit phase calls the rest.
type (
	WillMounter interface {
		ComponentWillMount()
	}
	WillReceivePropser interface {
		ComponentWillReceiveProps(nextProps Props, nextCtx Context)
	}
	ShouldUpdater interface {
		ShouldComponentUpdate(nextProps Props, nextState State, nextCtx Context) bool
	}
	WillUpdater interface {
		ComponentWillUpdate(nextProps Props, nextState State, nextCtx Context)
	}
	ChildContextProvider interface {
		ChildContext() (Context, error)
	}
	DidMounter interface {
		ComponentDidMount()
	}
	DidUpdater interface {
		ComponentDidUpdate(prevProps Props, prevState State)
	}
	WillUnmounter interface {
		ComponentWillUnmount()
	}
)

// Updater coordinates state updates for one instance. Updates are queued
// and consumed by the next pass that visits the instance; they never start
// a pass themselves.
type Updater struct {
	instance Component
	fiber    *Fiber
	schedule func(Component)

	mounted  bool
	hasError bool
	forced   bool
	pending  []State
	errors   []*LifecycleError

	// receiving points at the in-progress next state while render-phase
	// hooks that may call SetState are running.
	receiving *State
}

func newUpdater(instance Component, schedule func(Component)) *Updater {
	return &Updater{instance: instance, schedule: schedule}
}

// IsMounted reports whether the instance was committed on a prior pass.
func (u *Updater) IsMounted() bool { return u.mounted }

// SetMounted is called by the commit phase after mount and unmount.
func (u *Updater) SetMounted(mounted bool) { u.mounted = mounted }

// HasError reports whether the current pass recorded an unrecovered error.
func (u *Updater) HasError() bool { return u.hasError }

// Errors returns every lifecycle error recorded against the instance.
func (u *Updater) Errors() []*LifecycleError { return u.errors }

// Pending returns the number of queued partial states.
func (u *Updater) Pending() int { return len(u.pending) }

// Fiber returns the fiber that last reconciled the instance.
func (u *Updater) Fiber() *Fiber { return u.fiber }

func (u *Updater) enqueueSetState(partial State) {
	if u.receiving != nil {
		*u.receiving = mergeState(*u.receiving, partial)
		return
	}
	u.pending = append(u.pending, partial)
	if u.schedule != nil {
		u.schedule(u.instance)
	}
}

func (u *Updater) enqueueForceUpdate() {
	u.forced = true
	if u.schedule != nil {
		u.schedule(u.instance)
	}
}

// takePending returns and clears the queued updates.
func (u *Updater) takePending() (pending []State, forced bool) {
	pending, forced = u.pending, u.forced
	u.pending, u.forced = nil, false
	return pending, forced
}

func (u *Updater) pushError(err *LifecycleError) {
	u.hasError = true
	u.errors = append(u.errors, err)
}

// LifecycleError records a failure recovered inside a component.
type LifecycleError struct {
	Hook      string
	Component string
	Err       error
}

// Error implements the error interface.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Component, e.Hook, e.Err)
}

// Unwrap returns the underlying failure.
func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// statelessComponent adapts a function component to the instance lifecycle.
type statelessComponent struct {
	Base
	render func(Props, Context) Node
}

func (s *statelessComponent) Render() Node {
	return s.render(s.Props, s.Context)
}

func mergeState(base State, partials ...State) State {
	out := make(State, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, p := range partials {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

// sameMap reports whether a and b are the same map (not equal contents).
func sameMap[M ~map[string]any](a, b M) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
