package results

// Status messages shown to the participant after a session.
const (
	MessageSuccess  = "All trials completed. Thank you for participating!"
	MessageErrors   = "Results saved with errors. Please contact the operator."
	// MessageNotSaved is shown when no results file could be written.
	MessageNotSaved = "Results could not be saved. Please contact the operator."
)

// Status summarises whether the persisted table is clean.
type Status struct {
	AllListened bool `json:"all_listened"`
	NoMissing   bool `json:"no_missing"`
}

// Success reports whether every trial was fully heard and no cell is null.
func (s Status) Success() bool {
	return s.AllListened && s.NoMissing
}

// Message returns the human-readable status line.
func (s Status) Message() string {
	if s.Success() {
		return MessageSuccess
	}
	return MessageErrors
}
