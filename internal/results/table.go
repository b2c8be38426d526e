package results

import (
	"fmt"
	"time"

	"listenrate/internal/services"
	"listenrate/internal/trial"
)

// ColumnCount is the width of every persisted row.
const ColumnCount = 2 + trial.ScaleCount + 1

// Columns names the persisted columns in order.
var Columns = func() []string {
	cols := make([]string, 0, ColumnCount)
	cols = append(cols, "stimulus_index")
	for i := 1; i <= trial.ScaleCount; i++ {
		cols = append(cols, fmt.Sprintf("rating_%d", i))
	}
	return append(cols, "listened", "elapsed_seconds")
}()

// Row is one presentation-order position of the table.
type Row struct {
	// Presented is the stimulus index scheduled for this position, kept even
	// when the trial failed.
	Presented int
	Record    trial.Record
	Failed    bool
	// FailureKind is the services.Kind label of the failure.
	FailureKind   string
	FailureReason string
}

// CompletedRow wraps a submitted record.
func CompletedRow(rec trial.Record) Row {
	return Row{Presented: rec.StimulusIndex, Record: rec}
}

// FailedRow records a trial that produced no usable record.
func FailedRow(presented int, err error) Row {
	row := Row{Presented: presented, Failed: true, FailureKind: services.Kind(err)}
	if err != nil {
		row.FailureReason = err.Error()
	}
	return row
}

// Values returns the 11 column values with nil for null cells. A failed row
// is null in every column.
func (r Row) Values() []any {
	values := make([]any, ColumnCount)
	if r.Failed {
		return values
	}
	values[0] = r.Record.StimulusIndex
	for i, rating := range r.Record.Ratings {
		if rating.Set {
			values[1+i] = rating.Value
		}
	}
	listened := 0
	if r.Record.Listened {
		listened = 1
	}
	values[1+trial.ScaleCount] = listened
	values[2+trial.ScaleCount] = roundSeconds(r.Record.Elapsed)
	return values
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Round(time.Millisecond).Milliseconds()) / 1000
}

// Table is the ordered set of rows for one session.
type Table struct {
	SessionID  string
	StartedAt  time.Time
	FinishedAt time.Time
	// Order is the presentation order; Order[p-1] is the stimulus at position p.
	Order []int
	Rows  []Row
}

// Append adds the next row in presentation order.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Failures returns the failed rows with their 1-based positions.
func (t *Table) Failures() map[int]Row {
	failures := make(map[int]Row)
	for i, row := range t.Rows {
		if row.Failed {
			failures[i+1] = row
		}
	}
	return failures
}

// Status computes the post-session flags over every row.
func (t *Table) Status() Status {
	status := Status{AllListened: true, NoMissing: true}
	for _, row := range t.Rows {
		for i, v := range row.Values() {
			if v == nil {
				status.NoMissing = false
				if i == 1+trial.ScaleCount {
					status.AllListened = false
				}
			}
		}
		if !row.Failed && !row.Record.Listened {
			status.AllListened = false
		}
	}
	return status
}
