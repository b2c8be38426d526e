// Package preflight provides readiness checks for the stimulus pool, output
// directories and playback binary a session depends on.
//
// The run command calls RunAll before the operator prompt and refuses to
// start when a required check fails. The check command prints every result.
package preflight
