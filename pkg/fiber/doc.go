// Package fiber implements the reconciliation core of the renderer.
//
// Given a tree of declarative Elements, the reconciler decides which Fibers
// are created, updated, reused or torn down, and collects the fibers that
// need side effects into an ordered list for a separate commit phase.
//
// # Core Types
//
// Element is a declaration: a host tag or a ComponentType with props, an
// optional key and an optional ref. Fiber is the persistent unit of work for
// one tree position; it links to the Fiber it replaces through Alternate so
// host objects and component instances carry over between passes.
//
// # Reconciliation
//
// A pass walks the tree depth first. Each fiber is dispatched either to the
// host updater (materialize the host object, compute its mount point, diff
// its children) or to the component updater (run the lifecycle and render).
// Children are matched by key and then by type; a changed key always means
// remove and insert.
//
//	r := fiber.NewReconciler(hosts)
//	root := fiber.NewRoot(container)
//	pass, err := r.Render(ctx, root, fiber.H("ul", nil,
//	    fiber.H("li", fiber.Props{"key": "a"}, "A"),
//	    fiber.H("li", fiber.Props{"key": "b"}, "B"),
//	))
//	for _, f := range pass.Effects {
//	    // apply f.EffectTag.Effects() to the target
//	}
//
// # Effects
//
// Effects are encoded with package effect. The list handed to the commit
// phase holds every fiber that needs action exactly once, and a removed
// subtree's root always precedes its descendants.
package fiber
