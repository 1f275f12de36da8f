package fiber

import (
	"fmt"
)

// HostFactory materializes host objects for host fibers.
type HostFactory interface {
	CreateHost(f *Fiber) (any, error)
}

// HostFactoryFunc adapts a function to HostFactory.
type HostFactoryFunc func(f *Fiber) (any, error)

// CreateHost implements HostFactory.
func (fn HostFactoryFunc) CreateHost(f *Fiber) (any, error) {
	return fn(f)
}

// InstanceFactory constructs component instances.
type InstanceFactory interface {
	CreateInstance(f *Fiber, ctx Context) (Component, error)
}

// InstanceFactoryFunc adapts a function to InstanceFactory.
type InstanceFactoryFunc func(f *Fiber, ctx Context) (Component, error)

// CreateInstance implements InstanceFactory.
func (fn InstanceFactoryFunc) CreateInstance(f *Fiber, ctx Context) (Component, error) {
	return fn(f, ctx)
}

// DefaultInstances builds instances from ComponentType.New, or wraps
// ComponentType.Render in a stateless instance.
type DefaultInstances struct{}

// CreateInstance implements InstanceFactory.
func (DefaultInstances) CreateInstance(f *Fiber, ctx Context) (Component, error) {
	t, ok := f.Type.(*ComponentType)
	if !ok {
		return nil, fmt.Errorf("type %T is not a *ComponentType", f.Type)
	}

	var c Component
	switch {
	case t.New != nil:
		c = t.New(f.Props, ctx)
		if c == nil {
			return nil, fmt.Errorf("%s.New returned nil", typeName(t))
		}
	case t.Render != nil:
		c = &statelessComponent{render: t.Render}
	default:
		return nil, fmt.Errorf("%s has neither New nor Render", typeName(t))
	}

	b := c.base()
	if b.Props == nil {
		b.Props = f.Props
	}
	if b.Context == nil {
		b.Context = ctx
	}
	return c, nil
}
