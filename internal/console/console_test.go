package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"listenrate/internal/audio"
	"listenrate/internal/config"
	"listenrate/internal/logging"
	"listenrate/internal/trial"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) waitFor(t *testing.T, substr string, count int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Count(b.String(), substr) >= count {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", substr, b.String())
}

func newTestConsole(in io.Reader, out io.Writer) *Console {
	cfg := config.Default()
	return New(in, out, cfg.Scales, logging.NewNop(), WithColor(false))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		kind    trial.EventKind
		emitted bool
		reply   bool
	}{
		{line: "play", kind: trial.EventPlay, emitted: true},
		{line: "  P ", kind: trial.EventPlay, emitted: true},
		{line: "stop", kind: trial.EventStop, emitted: true},
		{line: "ok", kind: trial.EventSubmit, emitted: true},
		{line: "q", kind: trial.EventDismiss, emitted: true},
		{line: "rate 3 40", kind: trial.EventRate, emitted: true},
		{line: "rate 9 40", reply: true},
		{line: "rate 1 101", reply: true},
		{line: "rate one 4", reply: true},
		{line: "dance", reply: true},
		{line: "help", reply: true},
		{line: ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, ok, reply := parseCommand(tt.line, trial.ScaleCount)
			if ok != tt.emitted {
				t.Fatalf("emitted = %v, want %v", ok, tt.emitted)
			}
			if ok && ev.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", ev.Kind, tt.kind)
			}
			if (reply != "") != tt.reply {
				t.Fatalf("reply = %q", reply)
			}
		})
	}

	ev, _, _ := parseCommand("r 3 40", trial.ScaleCount)
	rating, _ := trial.RatingFromSlider(ev.Position)
	if ev.Scale != 2 || rating.Value != 40 {
		t.Fatalf("rate mapped to scale %d value %d", ev.Scale, rating.Value)
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"y", "YES", "true", "1", " t "} {
		if v, ok := ParseBool(in); !ok || !v {
			t.Fatalf("ParseBool(%q) = %v, %v", in, v, ok)
		}
	}
	for _, in := range []string{"n", "No", "false", "0"} {
		if v, ok := ParseBool(in); !ok || v {
			t.Fatalf("ParseBool(%q) = %v, %v", in, v, ok)
		}
	}
	for _, in := range []string{"", "maybe", "2"} {
		if _, ok := ParseBool(in); ok {
			t.Fatalf("ParseBool(%q) should be rejected", in)
		}
	}
}

func TestPromptBoolRepromptsOnInvalidInput(t *testing.T) {
	out := &syncBuffer{}
	c := newTestConsole(strings.NewReader("maybe\n\nyes\n"), out)

	got, err := c.PromptBool(context.Background(), "Debug mode?")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !got {
		t.Fatal("expected true")
	}
	if n := strings.Count(out.String(), "Debug mode? [y/n]: "); n != 3 {
		t.Fatalf("expected 3 prompts, got %d:\n%s", n, out.String())
	}
	if !strings.Contains(out.String(), "Please answer yes or no.") {
		t.Fatal("expected corrective message")
	}
}

func TestPromptBoolEOF(t *testing.T) {
	c := newTestConsole(strings.NewReader("perhaps\n"), &syncBuffer{})
	if _, err := c.PromptBool(context.Background(), "Debug mode?"); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestSurfaceEventsCloseOnEOF(t *testing.T) {
	c := newTestConsole(strings.NewReader(""), &syncBuffer{})
	s, err := c.Open(context.Background(), trial.Info{SetNo: 1, Total: 1, Stimulus: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	select {
	case _, ok := <-s.Events():
		if ok {
			t.Fatal("expected closed event stream")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed after EOF")
	}
}

func TestInputBetweenConsumersHoldsFirstLine(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	c := newTestConsole(pr, io.Discard)

	c.route("   ")
	c.route("play")
	c.route("stop")

	lines := c.attach()
	if got := <-lines; got != "play" {
		t.Fatalf("expected held line %q, got %q", "play", got)
	}
	if len(lines) != 0 {
		t.Fatalf("only the first line should be held, %d more queued", len(lines))
	}

	c.route("rate 1 50")
	if got := <-lines; got != "rate 1 50" {
		t.Fatalf("attached consumer got %q", got)
	}
	c.detach(lines)

	c.route("submit")
	next := c.attach()
	defer c.detach(next)
	if got := <-next; got != "submit" {
		t.Fatalf("expected held line %q, got %q", "submit", got)
	}
	if len(lines) != 0 {
		t.Fatal("detached consumer must not receive input")
	}
}

func TestHeldLineDeliveredBeforeEOF(t *testing.T) {
	c := newTestConsole(strings.NewReader(""), io.Discard)
	c.route("play")

	lines := c.attach()
	if got, ok := <-lines; !ok || got != "play" {
		t.Fatalf("expected held line before close, got %q (open=%v)", got, ok)
	}
	select {
	case _, ok := <-lines:
		if ok {
			t.Fatal("expected closed channel after EOF")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after EOF")
	}
}

type instantPlayer struct{}

type endedPlayback chan struct{}

func (instantPlayer) Start(context.Context, *audio.Clip) (audio.Playback, error) {
	done := make(endedPlayback)
	close(done)
	return done, nil
}

func (p endedPlayback) Done() <-chan struct{} { return p }
func (endedPlayback) Err() error              { return nil }
func (endedPlayback) Stop() error             { return nil }

func TestConsoleDrivesTrial(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}
	c := newTestConsole(pr, out)

	info := trial.Info{SetNo: 1, Total: 2, Stimulus: 5}
	s, err := c.Open(context.Background(), info)
	if err != nil {
		t.Fatal(err)
	}
	clip := &audio.Clip{SampleRate: 8000, Channels: 1, Samples: make([]float32, 8)}
	ctrl := trial.NewController(trial.Options{SetNo: 1, Total: 2, Stimulus: 5}, clip, s, instantPlayer{}, logging.NewNop())

	type result struct {
		rec trial.Record
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, err := ctrl.Run(context.Background())
		done <- result{rec, err}
	}()

	write := func(line string) {
		if _, err := io.WriteString(pw, line+"\n"); err != nil {
			t.Fatalf("write %q: %v", line, err)
		}
	}

	write("stop")
	out.waitFor(t, trial.TextListenBeforeStop, 1)
	write("play")
	out.waitFor(t, "Unpleasant", 1)
	for i := 1; i <= trial.ScaleCount; i++ {
		write("rate " + string(rune('0'+i)) + " 60")
	}
	out.waitFor(t, "Available:", 2+1+trial.ScaleCount)
	write("submit")

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("run: %v", res.err)
		}
		if !res.rec.Complete() || res.rec.Ratings[7].Value != 60 {
			t.Fatalf("unexpected record %+v", res.rec)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("trial did not finish; output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "stimulus 5") {
		t.Fatal("stimulus index must not be shown outside debug mode")
	}
}

func TestRenderView(t *testing.T) {
	c := newTestConsole(strings.NewReader(""), io.Discard)

	hidden := c.renderView(trial.View{SetNo: 2, Total: 30, PlayEnabled: true})
	if !strings.Contains(hidden, "Trial 2 of 30") || !strings.Contains(hidden, "unlock the rating scales") {
		t.Fatalf("unexpected hidden view:\n%s", hidden)
	}
	if !strings.Contains(hidden, "Available: play, help\n") {
		t.Fatalf("only play and help should be offered before the first listen:\n%s", hidden)
	}

	var ratings trial.Ratings
	ratings[0] = trial.Rating{Value: 100, Set: true}
	shown := c.renderView(trial.View{
		SetNo: 1, Total: 1, Debug: true, Stimulus: 9,
		PlayEnabled: true, StopEnabled: true, ScalesVisible: true, SubmitEnabled: true,
		Ratings: ratings,
	})
	for _, want := range []string{"debug: stimulus 9", "Unpleasant", "Familiar", "--------------------O", "quit"} {
		if !strings.Contains(shown, want) {
			t.Fatalf("expected %q in view:\n%s", want, shown)
		}
	}
}

func TestSlider(t *testing.T) {
	if got := slider(trial.Rating{}); strings.Contains(got, "O") {
		t.Fatalf("unset rating should have no marker: %q", got)
	}
	if got := slider(trial.Rating{Value: 0, Set: true}); !strings.HasPrefix(got, "O") {
		t.Fatalf("zero rating should mark the left end: %q", got)
	}
	if got := slider(trial.Rating{Value: 50, Set: true}); got[10] != 'O' {
		t.Fatalf("midpoint marker misplaced: %q", got)
	}
}
