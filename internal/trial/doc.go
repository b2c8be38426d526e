// Package trial runs one stimulus through the listen-before-rate protocol.
//
// A Controller is a small state machine driven by discrete events from the
// presentation surface (play, stop, slider moves, submit, dismiss) and by the
// completion signal of the current audio playback:
//
//	AwaitingFirstListen --full playback--> AwaitingResponses --valid submit--> Complete
//
// Rating controls stay hidden and stopping is refused until the participant
// has heard the stimulus once in full. Submission requires a full listen and
// all eight ratings; rejected interactions surface a corrective message and
// leave the record untouched. Debug mode shows the scales from the start,
// lifts the stop lockout, exposes the true stimulus index, and allows the
// operator to dismiss a trial without submitting.
//
// Run blocks the caller until the trial completes, so the session runner can
// iterate trials sequentially.
package trial
