package results

import (
	"errors"
	"testing"
	"time"

	"listenrate/internal/services"
	"listenrate/internal/trial"
)

func completeRecord(stimulus int, value int) trial.Record {
	rec := trial.Record{StimulusIndex: stimulus, Listened: true, Elapsed: 12345 * time.Millisecond}
	for i := range rec.Ratings {
		rec.Ratings[i] = trial.Rating{Value: value, Set: true}
	}
	return rec
}

func TestColumns(t *testing.T) {
	if len(Columns) != ColumnCount || ColumnCount != 11 {
		t.Fatalf("expected 11 columns, got %d (%v)", len(Columns), Columns)
	}
	if Columns[0] != "stimulus_index" || Columns[8] != "rating_8" || Columns[10] != "elapsed_seconds" {
		t.Fatalf("unexpected column names %v", Columns)
	}
}

func TestRowValues(t *testing.T) {
	row := CompletedRow(completeRecord(4, 0))
	values := row.Values()
	if values[0] != 4 {
		t.Fatalf("stimulus = %v", values[0])
	}
	if values[1] != 0 {
		t.Fatalf("zero rating must not be null, got %v", values[1])
	}
	if values[9] != 1 {
		t.Fatalf("listened = %v", values[9])
	}
	if values[10] != 12.345 {
		t.Fatalf("elapsed = %v", values[10])
	}

	failed := FailedRow(2, services.Wrap(services.ErrNotFound, "stimulus", "resolve", "2.wav", nil))
	for i, v := range failed.Values() {
		if v != nil {
			t.Fatalf("failed row column %d = %v, want nil", i, v)
		}
	}
	if failed.FailureKind != "not_found" || failed.Presented != 2 {
		t.Fatalf("unexpected failed row %+v", failed)
	}
}

func TestTableStatus(t *testing.T) {
	tests := []struct {
		name    string
		rows    []Row
		success bool
		message string
	}{
		{
			name:    "all complete",
			rows:    []Row{CompletedRow(completeRecord(1, 10)), CompletedRow(completeRecord(2, 90))},
			success: true,
			message: MessageSuccess,
		},
		{
			name:    "one failure",
			rows:    []Row{CompletedRow(completeRecord(1, 10)), FailedRow(2, errors.New("boom"))},
			message: MessageErrors,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{}
			for _, row := range tt.rows {
				table.Append(row)
			}
			status := table.Status()
			if status.Success() != tt.success {
				t.Fatalf("success = %v (%+v)", status.Success(), status)
			}
			if status.Message() != tt.message {
				t.Fatalf("message = %q", status.Message())
			}
		})
	}
}

func TestTableStatusFlagsIndependently(t *testing.T) {
	rec := completeRecord(1, 50)
	rec.Listened = false
	table := &Table{Rows: []Row{CompletedRow(rec)}}
	status := table.Status()
	if status.AllListened || !status.NoMissing {
		t.Fatalf("unexpected status %+v", status)
	}

	rec = completeRecord(1, 50)
	rec.Ratings[3] = trial.Rating{}
	table = &Table{Rows: []Row{CompletedRow(rec)}}
	status = table.Status()
	if !status.AllListened || status.NoMissing {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestFailures(t *testing.T) {
	table := &Table{}
	table.Append(FailedRow(2, errors.New("load")))
	table.Append(CompletedRow(completeRecord(1, 5)))
	failures := table.Failures()
	if len(failures) != 1 {
		t.Fatalf("expected one failure, got %d", len(failures))
	}
	if row, ok := failures[1]; !ok || row.Presented != 2 {
		t.Fatalf("unexpected failures %+v", failures)
	}
}
