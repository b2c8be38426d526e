package audio

import "context"

// Player starts playback of decoded clips.
type Player interface {
	Start(ctx context.Context, clip *Clip) (Playback, error)
}

// Playback is one running stream.
//
// Done is closed when the stream ends on its own; Err then reports nil for a
// full, uninterrupted playback and the failure otherwise. Stop halts the
// stream and returns once it is silent. After Stop, Done is never closed.
type Playback interface {
	Done() <-chan struct{}
	Err() error
	Stop() error
}
