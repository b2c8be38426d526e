// Package console implements the participant-facing trial surface on a
// plain terminal.
//
// One Console owns the input stream for the whole process. A single reader
// goroutine routes each typed line to whichever consumer is attached: the
// operator's debug prompt before the session, then one trial surface at a
// time. A finished trial's unread input is discarded with its surface. While
// nothing is attached, the first non-blank line is held for the next
// consumer and later ones are dropped.
package console
