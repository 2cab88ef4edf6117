package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"StockGym/internal/model"
)

// SQLiteRecorder persists episode summaries and per-step values to a SQLite
// database, suitable for dashboards over many runs.
type SQLiteRecorder struct {
	db      *sql.DB
	episode int
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the run in progress.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			episode         INTEGER NOT NULL,
			steps           INTEGER,
			start_date      TEXT,
			end_date        TEXT,
			value_open      REAL,
			value_close     REAL,
			value_high      REAL,
			value_low       REAL,
			buy_total       INTEGER,
			buy_fulfilled   INTEGER,
			sell_total      INTEGER,
			sell_fulfilled  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_ts ON episodes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS episode_steps (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			episode        INTEGER NOT NULL,
			step           INTEGER NOT NULL,
			date_time      TEXT,
			reward         REAL,
			total_value    REAL,
			available_fund REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_episode ON episode_steps(episode, step)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) StartEpisode(episode int) error {
	r.episode = episode
	return nil
}

func (r *SQLiteRecorder) RecordStep(rec *StepRecord) error {
	var availableFund float64
	if rec.Observation != nil {
		availableFund = rec.Observation.AvailableFund
	}
	_, err := r.db.Exec(`INSERT INTO episode_steps
		(episode, step, date_time, reward, total_value, available_fund)
		VALUES (?,?,?,?,?,?)`,
		rec.Episode, rec.Step, rec.DateTime, rec.Reward, rec.TotalValue, availableFund,
	)
	return err
}

func (r *SQLiteRecorder) RecordEpisode(summary *model.EpisodeSummary) error {
	_, err := r.db.Exec(`INSERT INTO episodes
		(timestamp, episode, steps, start_date, end_date,
		 value_open, value_close, value_high, value_low,
		 buy_total, buy_fulfilled, sell_total, sell_fulfilled)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), summary.Episode, summary.Steps,
		summary.StartDate, summary.EndDate,
		summary.Values.Open.Value, summary.Values.Close.Value,
		summary.Values.High.Value, summary.Values.Low.Value,
		summary.Buys.Total, summary.Buys.Fulfilled,
		summary.Sells.Total, summary.Sells.Fulfilled,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
