package trial

import "context"

// EventKind identifies a participant interaction.
type EventKind int

const (
	EventPlay EventKind = iota + 1
	EventStop
	EventRate
	EventSubmit
	EventDismiss
)

func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "play"
	case EventStop:
		return "stop"
	case EventRate:
		return "rate"
	case EventSubmit:
		return "submit"
	case EventDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// Event is one interaction delivered by a Surface. Scale (zero-based) and
// Position (normalized slider value) are only meaningful for EventRate.
type Event struct {
	Kind     EventKind
	Scale    int
	Position float64
}

// MessageKind selects how a message is rendered.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageError
)

// Message is colored status text shown to the participant.
type Message struct {
	Kind MessageKind
	Text string
}

// Participant-facing corrective messages.
const (
	TextListenBeforeStop   = "Please listen to the full track first."
	TextListenBeforeSubmit = "Please listen to the full track before submitting."
	TextAnswerAll          = "Please answer all questions before submitting."
	TextSubmitToContinue   = "Please submit your answers to continue."
	TextPlaybackFailed     = "Playback was interrupted. Press play to listen again."
)

// View is the full control state a Surface renders after every transition.
type View struct {
	SetNo         int
	Total         int
	Debug         bool
	Stimulus      int // true stimulus index, zero unless Debug
	State         State
	PlayEnabled   bool
	PlayActive    bool
	StopEnabled   bool
	ScalesVisible bool
	SubmitEnabled bool
	Ratings       Ratings
}

// Surface is the presentation collaborator for one trial.
type Surface interface {
	// Events delivers participant interactions. A closed channel means the
	// participant input ended.
	Events() <-chan Event
	Render(View)
	ShowMessage(Message)
	Close() error
}

// Info describes the trial a Presenter opens a surface for.
type Info struct {
	SetNo    int
	Total    int
	Stimulus int
	Debug    bool
}

// Presenter opens one Surface per trial.
type Presenter interface {
	Open(ctx context.Context, info Info) (Surface, error)
}
