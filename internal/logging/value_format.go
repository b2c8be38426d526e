package logging

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return formatValue(v)
}

// formatValue renders a console attribute value. Stimulus lists print as
// 2,1,3 and trial timings are rounded to the millisecond.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return formatDuration(v.Duration())
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return formatTimestamp(v.Time())
	case slog.KindAny:
		return formatAny(v.Any())
	default:
		return quoteIfNeeded(v.String())
	}
}

func formatAny(value any) string {
	switch t := value.(type) {
	case error:
		return quoteIfNeeded(t.Error())
	case []int:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		return quoteIfNeeded(strings.Join(t, ","))
	case time.Duration:
		return formatDuration(t)
	default:
		return quoteIfNeeded(fmt.Sprint(t))
	}
}

func formatDuration(d time.Duration) string {
	if d >= time.Millisecond || d <= -time.Millisecond {
		d = d.Round(time.Millisecond)
	}
	return d.String()
}

func quoteIfNeeded(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
