// Package metrics exposes fuzz run statistics as Prometheus metrics.
//
// A Collector observes a run through the fuzz.Observer hooks and keeps its
// own registry, so several suites can be measured in one process. The
// registry is written in text format for the node exporter textfile
// collector, or served by any Prometheus handler.
package metrics
