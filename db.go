package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/llmharness/llmharness/internal/probe"
)

func openDB(path string) (*historyDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("could not create history db: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping history db: %w", err)
	}
	if _, err := db.Exec(`
		create table if not exists checks(
			run_id text not null,
			alias text not null,
			provider text not null,
			model_id text not null,
			status text not null,
			reason text not null default '',
			checked_at datetime not null default current_timestamp
		);
	`); err != nil {
		return nil, fmt.Errorf("could not migrate history db: %w", err)
	}
	if _, err := db.Exec(`
		create index if not exists checks_run_id on checks(run_id);
	`); err != nil {
		return nil, fmt.Errorf("could not migrate history db: %w", err)
	}
	return &historyDB{db}, nil
}

type historyDB struct {
	db *sqlx.DB
}

type dbCheck struct {
	RunID     string    `db:"run_id"`
	Alias     string    `db:"alias"`
	Provider  string    `db:"provider"`
	ModelID   string    `db:"model_id"`
	Status    string    `db:"status"`
	Reason    string    `db:"reason"`
	CheckedAt time.Time `db:"checked_at"`
}

func (h *historyDB) Close() error {
	return h.db.Close() //nolint:wrapcheck
}

// SaveRun records every result of one check run under a shared run id.
func (h *historyDB) SaveRun(runID string, results []probe.Result) error {
	if runID == "" {
		return fmt.Errorf("could not save run: empty run id")
	}
	tx, err := h.db.Beginx()
	if err != nil {
		return fmt.Errorf("could not save run: %w", err)
	}
	for _, result := range results {
		if _, err := tx.Exec(`
			insert into checks (run_id, alias, provider, model_id, status, reason, checked_at)
			values ($1, $2, $3, $4, $5, $6, $7)
		`, runID, result.Alias, result.Provider, result.ModelID, string(result.Status), result.Reason, result.CheckedAt.UTC()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not save run: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not save run: %w", err)
	}
	return nil
}

// Recent returns the checks of the last n runs, oldest run first.
func (h *historyDB) Recent(n int) ([]dbCheck, error) {
	var checks []dbCheck
	if err := h.db.Select(&checks, `
		select run_id, alias, provider, model_id, status, reason, checked_at
		from checks
		where run_id in (
			select run_id from (
				select run_id, max(checked_at) as last
				from checks
				group by run_id
				order by last desc
				limit $1
			)
		)
		order by checked_at, provider, alias
	`, n); err != nil {
		return nil, fmt.Errorf("could not list history: %w", err)
	}
	return checks, nil
}
