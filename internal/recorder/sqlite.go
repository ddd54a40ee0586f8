package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"CrashLadder/internal/model"
)

// SQLiteRecorder persists the event stream to a SQLite database. Each
// process run gets its own run_id so several simulations can share a file.
type SQLiteRecorder struct {
	db    *sql.DB
	runID string
	mu    sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so analysis queries can read while the simulation writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, runID: uuid.NewString()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Str("run_id", r.runID).Msg("sqlite recorder opened")
	return r, nil
}

// RunID returns the identifier stamped on every row this recorder writes.
func (r *SQLiteRecorder) RunID() string { return r.runID }

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycle_opens (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			cycle_index   INTEGER NOT NULL,
			outcome_index INTEGER NOT NULL,
			at            INTEGER,
			snapshot      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opens_run ON cycle_opens(run_id, cycle_index)`,

		`CREATE TABLE IF NOT EXISTS cycle_closes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			cycle_index   INTEGER NOT NULL,
			outcome_index INTEGER NOT NULL,
			at            INTEGER,
			result        TEXT NOT NULL,
			tier          INTEGER NOT NULL,
			attempt       INTEGER NOT NULL,
			outcome       REAL NOT NULL,
			staked        TEXT NOT NULL,
			profit        TEXT NOT NULL,
			balance       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_closes_run ON cycle_closes(run_id, cycle_index)`,

		`CREATE TABLE IF NOT EXISTS busts (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			cycle_index    INTEGER NOT NULL,
			outcome_index  INTEGER NOT NULL,
			at             INTEGER,
			tier           INTEGER NOT NULL,
			attempt        INTEGER NOT NULL,
			balance_before TEXT NOT NULL,
			loss           TEXT NOT NULL,
			balance        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_busts_run ON busts(run_id)`,

		`CREATE TABLE IF NOT EXISTS withdrawals (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			outcome_index   INTEGER NOT NULL,
			at              INTEGER,
			amount          TEXT NOT NULL,
			balance         TEXT NOT NULL,
			total_withdrawn TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_run ON withdrawals(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordOpen(evt *model.CycleOpened) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_opens
		(run_id, cycle_index, outcome_index, at, snapshot)
		VALUES (?,?,?,?,?)`,
		r.runID, evt.CycleIndex, evt.OutcomeIndex, evt.At.Unix(), evt.Snapshot.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordClose(evt *model.CycleClosed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_closes
		(run_id, cycle_index, outcome_index, at, result, tier, attempt, outcome, staked, profit, balance)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.runID, evt.CycleIndex, evt.OutcomeIndex, evt.At.Unix(), string(evt.Result),
		evt.Tier, evt.Attempt, evt.Outcome,
		evt.Staked.String(), evt.Profit.String(), evt.Balance.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordBust(evt *model.BustOccurred) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO busts
		(run_id, cycle_index, outcome_index, at, tier, attempt, balance_before, loss, balance)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		r.runID, evt.CycleIndex, evt.OutcomeIndex, evt.At.Unix(), evt.Tier, evt.Attempt,
		evt.BalanceBefore.String(), evt.Loss.String(), evt.Balance.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordWithdrawal(evt *model.WithdrawalApplied) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO withdrawals
		(run_id, outcome_index, at, amount, balance, total_withdrawn)
		VALUES (?,?,?,?,?,?)`,
		r.runID, evt.OutcomeIndex, evt.At.Unix(),
		evt.Amount.String(), evt.Balance.String(), evt.TotalWithdrawn.String(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
