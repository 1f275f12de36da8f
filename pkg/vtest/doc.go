// Package vtest provides testing helpers for fiber reconciliation.
//
// A Harness wires a Reconciler to an in-memory host, commits every pass and
// keeps what happened for assertions: the passes, the components that asked
// for an update and the lifecycle errors that were recovered.
//
// # Quick Start
//
//	func TestList(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Render(fiber.H("ul", nil, fiber.H("li", nil, "a")))
//	    vtest.ExpectHTML(t, h, "<ul><li>a</li></ul>")
//	}
//
// # Lifecycle Recording
//
// Recorder builds a ComponentType whose instances log every lifecycle call
// to a shared Log, so tests can assert on hook order:
//
//	log := &vtest.Log{}
//	comp := vtest.Recorder("Item", log, func(p fiber.Props, s fiber.State) fiber.Node {
//	    return fiber.H("span", nil, p["label"])
//	})
//	h.Render(fiber.C(comp, fiber.Props{"label": "x"}))
//	log.Calls() // [Item.ComponentWillMount Item.Render Item.ComponentDidMount]
//
// # Effect Assertions
//
//	vtest.ExpectEffects(t, f, effect.Place, effect.Attr)
package vtest
