package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"listenrate/internal/config"
	"listenrate/internal/logging"
	"listenrate/internal/trial"
)

// sinkBuffer bounds how many lines queue for a slow consumer before new input
// is dropped.
const sinkBuffer = 16

// Console routes terminal input and renders trial surfaces.
type Console struct {
	in      io.Reader
	out     io.Writer
	color   bool
	anchors [][2]string
	logger  *slog.Logger

	startOnce sync.Once
	mu        sync.Mutex
	sink      chan string
	held      string
	holding   bool
	eof       bool

	writeMu sync.Mutex
}

// Option customises a Console.
type Option func(*Console)

// WithColor forces colour output on or off.
func WithColor(enabled bool) Option {
	return func(c *Console) { c.color = enabled }
}

// New creates a console over in and out using the configured scale anchors.
// Colour is enabled when out is a terminal.
func New(in io.Reader, out io.Writer, scales []config.Scale, logger *slog.Logger, opts ...Option) *Console {
	caser := cases.Title(language.English)
	anchors := make([][2]string, len(scales))
	for i, s := range scales {
		anchors[i] = [2]string{caser.String(s.Left), caser.String(s.Right)}
	}
	c := &Console{
		in:      in,
		out:     out,
		color:   ShouldColorize(out),
		anchors: anchors,
		logger:  logging.NewComponentLogger(logger, "console"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldColorize reports whether writer is an interactive terminal.
func ShouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// attach makes a fresh line channel the current input consumer. A line held
// while nothing was attached is delivered first. The channel is closed when
// input reaches EOF.
func (c *Console) attach() chan string {
	c.startOnce.Do(func() { go c.readLines() })

	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan string, sinkBuffer)
	if c.holding {
		ch <- c.held
		c.held, c.holding = "", false
	}
	if c.eof {
		close(ch)
		return ch
	}
	c.sink = ch
	return ch
}

func (c *Console) detach(ch chan string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sink == ch {
		c.sink = nil
	}
}

func (c *Console) readLines() {
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.route(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warn("read participant input failed", logging.Error(err))
	}

	c.mu.Lock()
	c.eof = true
	if c.sink != nil {
		close(c.sink)
		c.sink = nil
	}
	c.mu.Unlock()
}

// route hands line to the attached consumer. Between consumers only the
// first non-blank line is held, e.g. "play" typed while the next stimulus
// is still loading.
func (c *Console) route(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.sink != nil:
		select {
		case c.sink <- line:
		default:
			c.logger.Warn("input dropped while consumer busy", logging.String("line", line))
		}
	case strings.TrimSpace(line) == "":
	case !c.holding:
		c.held, c.holding = line, true
		c.logger.Debug("input held for next consumer", logging.String("line", line))
	default:
		c.logger.Warn("input dropped between trials", logging.String("line", line))
	}
}

// Announce prints a coloured message line.
func (c *Console) Announce(msg trial.Message) {
	c.write(c.paint(msg.Kind, msg.Text) + "\n")
}

func (c *Console) paint(kind trial.MessageKind, s string) string {
	if !c.color {
		return s
	}
	if kind == trial.MessageError {
		return text.Colors{text.FgRed, text.Bold}.Sprint(s)
	}
	return text.Colors{text.FgGreen}.Sprint(s)
}

func (c *Console) write(s string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Debug("console write failed", logging.Error(err))
	}
}

func (c *Console) printf(format string, args ...any) {
	c.write(fmt.Sprintf(format, args...))
}
