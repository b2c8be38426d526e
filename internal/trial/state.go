package trial

// State is the controller's position in the trial lifecycle.
type State int

const (
	StateAwaitingFirstListen State = iota
	StateAwaitingResponses
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstListen:
		return "awaiting_first_listen"
	case StateAwaitingResponses:
		return "awaiting_responses"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}
