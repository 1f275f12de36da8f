// Package commit applies a reconciliation pass to a host target.
//
// Apply walks Pass.Effects in order, decodes each fiber's effect tag and
// calls the Target: removals, insertions after the fiber's mount point,
// attribute syncs, text updates and refs. It runs the commit-time lifecycle
// hooks (ComponentDidMount, ComponentDidUpdate, ComponentWillUnmount), marks
// instances mounted and clears the alternates of the committed tree.
//
// Memory is an in-memory Target and HostFactory used by fiberctl and tests.
//
//	mem := commit.NewMemory()
//	r := fiber.NewReconciler(mem)
//	root := fiber.NewRoot(mem.Container)
//	pass, _ := r.Render(ctx, root, fiber.H("p", nil, "hi"))
//	_ = commit.Apply(pass, mem)
//	mem.Container.HTML() // <p>hi</p>
package commit
