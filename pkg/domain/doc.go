/*
Package domain holds the core types shared between the session engine, its
ports, and the adapters: record handles, lifecycle events, and the sentinel
errors the engine reports on broken chains.
*/
package domain
