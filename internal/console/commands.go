package console

import (
	"fmt"
	"strconv"
	"strings"

	"listenrate/internal/trial"
)

const helpText = `Commands:
  play | p               play the track from the beginning
  stop | s               stop playback
  rate <scale> <value>   set scale 1-8 to a value from 0 to 100 (alias: r)
  submit | ok            submit your answers
  help | h               show this help`

const debugHelpText = `
  quit | q               close the trial without submitting (debug)`

// parseCommand converts a typed line into an event. A non-empty reply is
// shown to the participant instead of emitting an event.
func parseCommand(line string, scales int) (trial.Event, bool, string) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return trial.Event{}, false, ""
	}
	switch fields[0] {
	case "play", "p":
		return trial.Event{Kind: trial.EventPlay}, true, ""
	case "stop", "s":
		return trial.Event{Kind: trial.EventStop}, true, ""
	case "submit", "ok":
		return trial.Event{Kind: trial.EventSubmit}, true, ""
	case "quit", "q":
		return trial.Event{Kind: trial.EventDismiss}, true, ""
	case "rate", "r":
		return parseRate(fields[1:], scales)
	case "help", "h", "?":
		return trial.Event{}, false, helpText
	default:
		return trial.Event{}, false, fmt.Sprintf("Unknown command %q. Type help for the list of commands.", fields[0])
	}
}

func parseRate(args []string, scales int) (trial.Event, bool, string) {
	usage := fmt.Sprintf("Usage: rate <scale 1-%d> <value 0-100>", scales)
	if len(args) != 2 {
		return trial.Event{}, false, usage
	}
	scale, err := strconv.Atoi(args[0])
	if err != nil || scale < 1 || scale > scales {
		return trial.Event{}, false, usage
	}
	value, err := strconv.Atoi(args[1])
	if err != nil || value < 0 || value > trial.MaxRating {
		return trial.Event{}, false, usage
	}
	return trial.Event{
		Kind:     trial.EventRate,
		Scale:    scale - 1,
		Position: float64(value) / trial.MaxRating,
	}, true, ""
}
