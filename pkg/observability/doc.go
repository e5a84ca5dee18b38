/*
Package observability provides Prometheus instrumentation for seedbed
sessions, wired through the engine's lifecycle hooks.
*/
package observability
