// Package metric provides Prometheus metrics for hbr-recover.
//
// A recovery is a one-shot process, so nothing is served over HTTP. The
// metrics of a run are written once, in the text exposition format, to a
// file a node exporter textfile collector picks up.
//
// Metrics include:
//
//   - restore points found and snapshots synthesized
//   - bytes written and files archived
//   - run duration and last success time
//   - runs by result
package metric
