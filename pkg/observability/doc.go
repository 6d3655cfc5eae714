/*
Package observability provides tools for monitoring the workflow editor.

It turns graph events into Prometheus counters and structured log lines, and instruments
document stores with save outcome and latency metrics.
*/
package observability
