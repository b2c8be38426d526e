package session

import (
	"listenrate/internal/results"
	"listenrate/internal/trial"
)

// Outcome is the result of one trial: a submitted record or the error that
// ended it.
type Outcome struct {
	SetNo    int
	Stimulus int
	Record   trial.Record
	Err      error
}

// Failed reports whether the trial ended without a submitted record.
func (o Outcome) Failed() bool { return o.Err != nil }

// Row converts the outcome into its results row.
func (o Outcome) Row() results.Row {
	if o.Failed() {
		return results.FailedRow(o.Stimulus, o.Err)
	}
	return results.CompletedRow(o.Record)
}
