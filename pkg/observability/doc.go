/*
Package observability exposes Prometheus metrics for the RapidFire core.

The project actor, the event hub and the volume watcher each report through a
shared *Metrics. A nil *Metrics is valid and records nothing, so library users
that do not scrape metrics pay no cost.
*/
package observability
