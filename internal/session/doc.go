// Package session runs one participant through the full stimulus battery.
//
// A Runner draws a presentation order, then for each position resolves the
// stimulus, opens a trial surface and blocks on a trial.Controller until the
// participant submits. Every trial yields an Outcome; failures become null
// rows and the battery continues. The finished table is saved through the
// results store and, when configured, archived.
package session
