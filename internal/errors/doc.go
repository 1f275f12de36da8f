// Package errors provides coded, structured errors for the fiber reconciler
// and its tooling.
//
// Every error carries a code (e.g. "F001") registered with a category, a
// short message, a longer explanation and a documentation link. Errors can
// name the fiber they were raised for and wrap the underlying failure, so
// errors.Is and errors.As work across the boundary.
//
// # Error Categories
//
//   - host: host object construction (fatal for a pass)
//   - lifecycle: component hooks and instance construction
//   - children: child normalization
//   - config: fiber.json loading and validation
//   - cli: fiberctl usage
//
// # Usage
//
//	err := errors.New("F001").
//	    WithFiber("App > div#main").
//	    Wrap(cause)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR F001: Host construction failed
//	//
//	//   at App > div#main
//	//
//	//   The host factory returned an error while materializing a host fiber.
//	//   The reconciliation pass was aborted and nothing was committed.
//	//
//	//   Cause: device lost
//	//
//	//   Learn more: https://vango.dev/docs/fiber/errors/F001
package errors
