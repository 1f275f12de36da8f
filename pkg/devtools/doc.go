// Package devtools serves reconciliation passes to developer tools.
//
// A Server observes a Reconciler, keeps the most recent pass summaries and
// streams each new one to websocket subscribers:
//
//	dt := devtools.New(devtools.WithHistory(100))
//	r := fiber.NewReconciler(hosts, fiber.WithObserver(dt.Observe))
//	go dt.ListenAndServe(ctx, "localhost:7070")
//
// Routes:
//
//	GET /passes        recent summaries, oldest first (?limit=n)
//	GET /passes/{seq}  one summary
//	GET /metrics       Prometheus metrics
//	GET /ws            websocket stream of new summaries
package devtools
