/*
Package observability provides Prometheus metrics for the arbor engine.

Metrics are recorded through the engine's lifecycle hooks, so any engine can
be instrumented without changes:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng := arbor.New(arbor.WithLifecycleHooks(m.Hooks()))
*/
package observability
