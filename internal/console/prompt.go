package console

import (
	"context"
	"io"
	"strconv"
	"strings"

	"listenrate/internal/trial"
)

// ParseBool accepts y/yes/n/no plus everything strconv.ParseBool does.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false
	}
	return v, true
}

// PromptBool asks question until a valid yes/no answer is typed. It returns
// io.EOF when input ends first.
func (c *Console) PromptBool(ctx context.Context, question string) (bool, error) {
	lines := c.attach()
	defer c.detach(lines)

	for {
		c.printf("%s [y/n]: ", question)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				c.write("\n")
				return false, io.EOF
			}
			if v, ok := ParseBool(line); ok {
				return v, nil
			}
			c.Announce(trial.Message{Kind: trial.MessageError, Text: "Please answer yes or no."})
		}
	}
}
