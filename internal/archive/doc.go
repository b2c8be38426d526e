// Package archive keeps an SQLite record of every completed session so an
// operator can follow up on failed trials after the participant has left.
//
// The archive is append-only from the session's point of view: one sessions
// row plus one trials row per presentation position. The results files remain
// the primary output; a failure to archive is logged and never affects them.
package archive
