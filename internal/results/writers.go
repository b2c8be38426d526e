package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Sheet1"

type document struct {
	SessionID         string    `json:"session_id"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	Columns           []string  `json:"columns"`
	PresentationOrder []int     `json:"presentation_order"`
	Rows              [][]any   `json:"rows"`
	Failures          []failure `json:"failures,omitempty"`
	Status            Status    `json:"status"`
}

type failure struct {
	SetNo    int    `json:"set_no"`
	Stimulus int    `json:"stimulus"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason,omitempty"`
}

func newDocument(t *Table) document {
	doc := document{
		SessionID:         t.SessionID,
		StartedAt:         t.StartedAt,
		FinishedAt:        t.FinishedAt,
		Columns:           Columns,
		PresentationOrder: t.Order,
		Rows:              make([][]any, len(t.Rows)),
		Status:            t.Status(),
	}
	for i, row := range t.Rows {
		doc.Rows[i] = row.Values()
	}
	failures := t.Failures()
	positions := make([]int, 0, len(failures))
	for p := range failures {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	for _, p := range positions {
		row := failures[p]
		doc.Failures = append(doc.Failures, failure{SetNo: p, Stimulus: row.Presented, Kind: row.FailureKind, Reason: row.FailureReason})
	}
	return doc
}

func writeJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(t))
}

// writeCSV writes a header line followed by one line per row; null cells are
// empty fields.
func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	record := make([]string, ColumnCount)
	for _, row := range t.Rows {
		for i, v := range row.Values() {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func writeXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}
