// Package metrics exports reconciliation statistics to Prometheus.
//
// A Collector observes every pass of a Reconciler and records lifecycle
// failures recovered inside components:
//
//	c := metrics.New(metrics.WithNamespace("myapp"))
//	r := fiber.NewReconciler(hosts, c.Options()...)
//
//	// Expose the metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected (with the default "fiber" namespace):
//   - fiber_passes_total: completed passes
//   - fiber_pass_failures_total: aborted passes by error code
//   - fiber_pass_duration_seconds: pass duration
//   - fiber_fibers_total: fibers begun, by kind (host, component)
//   - fiber_effects_total: effects emitted, by effect
//   - fiber_bailouts_total: components that bailed out
//   - fiber_render_skips_total: components whose render was skipped
//   - fiber_teardowns_total: fibers torn down
//   - fiber_lifecycle_errors_total: recovered failures, by hook and code
//   - fiber_last_pass_fibers: fibers begun by the most recent pass
package metrics
