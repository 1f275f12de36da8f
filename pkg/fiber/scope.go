package fiber

// Scope carries the context stack and the current owner through one pass.
// It is passed down the walk explicitly; every push is paired with a pop
// when the pushing fiber completes.
type Scope struct {
	contexts []Context
	owner    Component
}

// Context returns the innermost pushed context, or nil.
func (s *Scope) Context() Context {
	if len(s.contexts) == 0 {
		return nil
	}
	return s.contexts[len(s.contexts)-1]
}

// Depth returns the number of pushed contexts.
func (s *Scope) Depth() int {
	return len(s.contexts)
}

// PushContext makes ctx the innermost context.
func (s *Scope) PushContext(ctx Context) {
	s.contexts = append(s.contexts, ctx)
}

// PopContext removes the innermost context.
func (s *Scope) PopContext() {
	if n := len(s.contexts); n > 0 {
		s.contexts[n-1] = nil
		s.contexts = s.contexts[:n-1]
	}
}

// Owner returns the instance currently rendering, or nil.
func (s *Scope) Owner() Component {
	return s.owner
}

// Masked extracts the declared keys from the innermost context. A component
// with no declared keys gets the shared empty context.
func (s *Scope) Masked(keys []string) Context {
	if len(keys) == 0 {
		return emptyContext
	}
	parent := s.Context()
	ctx := make(Context, len(keys))
	for _, k := range keys {
		ctx[k] = parent[k]
	}
	return ctx
}

// renderAs runs fn with owner as the current owner and restores the
// previous owner afterwards, even if fn panics.
func (s *Scope) renderAs(owner Component, fn func()) {
	prev := s.owner
	s.owner = owner
	defer func() { s.owner = prev }()
	fn()
}
