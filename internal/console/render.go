package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"listenrate/internal/trial"
)

const sliderWidth = 21

func (c *Console) renderView(v trial.View) string {
	var b strings.Builder

	title := fmt.Sprintf("Trial %d of %d", v.SetNo, v.Total)
	if v.Debug {
		title += fmt.Sprintf("  [debug: stimulus %d, %s]", v.Stimulus, v.State)
	}
	if c.color {
		title = text.Colors{text.Bold}.Sprint(title)
	}
	b.WriteString(title + "\n")

	playback := "stopped"
	if v.PlayActive {
		playback = "playing"
		if c.color {
			playback = text.Colors{text.FgCyan, text.Bold}.Sprint(playback)
		}
	}
	fmt.Fprintf(&b, "Playback: %s\n", playback)

	if v.ScalesVisible {
		b.WriteString(c.renderScales(v.Ratings))
		b.WriteString("\n")
	} else {
		b.WriteString("Listen to the full track to unlock the rating scales.\n")
	}

	b.WriteString("Available: " + strings.Join(availableCommands(v), ", ") + "\n")
	return b.String()
}

func (c *Console) renderScales(ratings trial.Ratings) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "", "", "", "Value"})
	for i, anchor := range c.anchors {
		if i >= len(ratings) {
			break
		}
		value := "-"
		if ratings[i].Set {
			value = fmt.Sprintf("%d", ratings[i].Value)
		}
		tw.AppendRow(table.Row{i + 1, anchor[0], slider(ratings[i]), anchor[1], value})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

// slider draws a rating as a marker on a fixed-width track.
func slider(r trial.Rating) string {
	track := []rune(strings.Repeat("-", sliderWidth))
	if !r.Set {
		return string(track)
	}
	pos := int(math.Round(float64(r.Value) / trial.MaxRating * (sliderWidth - 1)))
	track[pos] = 'O'
	return string(track)
}

func availableCommands(v trial.View) []string {
	var cmds []string
	if v.PlayEnabled {
		cmds = append(cmds, "play")
	}
	if v.StopEnabled {
		cmds = append(cmds, "stop")
	}
	if v.ScalesVisible {
		cmds = append(cmds, "rate <scale> <value>")
	}
	if v.SubmitEnabled {
		cmds = append(cmds, "submit")
	}
	if v.Debug {
		cmds = append(cmds, "quit")
	}
	return append(cmds, "help")
}
