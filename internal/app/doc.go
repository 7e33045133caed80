// Package app contains the core application lifecycle: load the input, build
// the graph and the table, answer both queries and report. It is decoupled
// from any specific entrypoint like a CLI.
package app
