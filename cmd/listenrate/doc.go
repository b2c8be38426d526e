// Package main hosts the listenrate CLI entrypoint and command graph.
//
// The Cobra-based command tree runs listening sessions, reports booth
// readiness, lists archived sessions and scaffolds configuration. It
// centralizes .env loading, configuration resolution and logger setup so
// subcommands only wire internal packages together.
package main
