package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listenrate/internal/results"
	"listenrate/internal/trial"
)

// ErrNotFound is returned when a session id is not in the archive.
var ErrNotFound = errors.New("session not found")

// Session is one archived run.
type Session struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	PoolSize    int
	Debug       bool
	Failures    int
	Status      results.Status
	ResultsBase string
}

// Trial is one archived presentation position.
type Trial struct {
	SetNo    int
	Stimulus int
	// Listened and Elapsed are nil for failed trials.
	Listened      *bool
	Elapsed       *time.Duration
	Ratings       [trial.ScaleCount]*int
	FailureKind   string
	FailureReason string
}

// Failed reports whether the trial produced a null row.
func (t Trial) Failed() bool { return t.FailureKind != "" }

// RecordSession stores the session and all of its rows in one transaction.
func (s *Store) RecordSession(ctx context.Context, table *results.Table, debug bool, paths results.Paths) error {
	status := table.Status()
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin session tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (
                id, started_at, finished_at, pool_size, debug,
                failures, all_listened, no_missing, results_base
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			table.SessionID,
			formatTime(table.StartedAt),
			formatTime(table.FinishedAt),
			len(table.Rows),
			boolToInt(debug),
			len(table.Failures()),
			boolToInt(status.AllListened),
			boolToInt(status.NoMissing),
			nullableString(paths.Base),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		for i, row := range table.Rows {
			if err := insertTrial(ctx, tx, table.SessionID, i+1, row); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit session: %w", err)
		}
		return nil
	})
}

func insertTrial(ctx context.Context, tx *sql.Tx, sessionID string, setNo int, row results.Row) error {
	var (
		listened  any
		elapsedMS any
		ratings   any
	)
	if !row.Failed {
		listened = boolToInt(row.Record.Listened)
		elapsedMS = row.Record.Elapsed.Milliseconds()
		values := row.Values()[1 : 1+trial.ScaleCount]
		encoded, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("marshal ratings: %w", err)
		}
		ratings = string(encoded)
	}
	kind := row.FailureKind
	if row.Failed && kind == "" {
		kind = "transient"
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO trials (
            session_id, set_no, stimulus, listened, elapsed_ms,
            ratings_json, failure_kind, failure_reason
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		setNo,
		row.Presented,
		listened,
		elapsedMS,
		ratings,
		nullableString(kind),
		nullableString(row.FailureReason),
	)
	if err != nil {
		return fmt.Errorf("insert trial %d: %w", setNo, err)
	}
	return nil
}

// ListSessions returns the most recent sessions first. A limit of zero or
// less returns every session.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT id, started_at, finished_at, pool_size, debug,
            failures, all_listened, no_missing, results_base
        FROM sessions ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// GetSession loads a single session by id.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, pool_size, debug,
            failures, all_listened, no_missing, results_base
        FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return session, err
}

// Trials returns a session's rows in presentation order.
func (s *Store) Trials(ctx context.Context, sessionID string) ([]Trial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT set_no, stimulus, listened, elapsed_ms, ratings_json, failure_kind, failure_reason
        FROM trials WHERE session_id = ? ORDER BY set_no`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var (
			t         Trial
			listened  sql.NullInt64
			elapsedMS sql.NullInt64
			ratings   sql.NullString
			kind      sql.NullString
			reason    sql.NullString
		)
		if err := rows.Scan(&t.SetNo, &t.Stimulus, &listened, &elapsedMS, &ratings, &kind, &reason); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		if listened.Valid {
			v := listened.Int64 != 0
			t.Listened = &v
		}
		if elapsedMS.Valid {
			d := time.Duration(elapsedMS.Int64) * time.Millisecond
			t.Elapsed = &d
		}
		if ratings.Valid {
			var values []*int
			if err := json.Unmarshal([]byte(ratings.String), &values); err != nil {
				return nil, fmt.Errorf("decode ratings for trial %d: %w", t.SetNo, err)
			}
			copy(t.Ratings[:], values)
		}
		t.FailureKind = kind.String
		t.FailureReason = reason.String
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trials: %w", err)
	}
	return trials, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		s           Session
		started     string
		finished    string
		debug       int
		allListened int
		noMissing   int
		base        sql.NullString
	)
	if err := sc.Scan(&s.ID, &started, &finished, &s.PoolSize, &debug, &s.Failures, &allListened, &noMissing, &base); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	var err error
	if s.StartedAt, err = parseTime(started); err != nil {
		return Session{}, err
	}
	if s.FinishedAt, err = parseTime(finished); err != nil {
		return Session{}, err
	}
	s.Debug = debug != 0
	s.Status = results.Status{AllListened: allListened != 0, NoMissing: noMissing != 0}
	s.ResultsBase = base.String
	return s, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
