package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"farmhub/internal/core"
	"farmhub/internal/fixtures"
	"farmhub/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db           *sql.DB
	farms        *sqlTable[core.Farm, *core.Farm, core.FarmPatch]
	crops        *sqlTable[core.Crop, *core.Crop, core.CropPatch]
	tasks        *sqlTable[core.Task, *core.Task, core.TaskPatch]
	transactions *sqlTable[core.Transaction, *core.Transaction, core.TransactionPatch]
	weather      *weatherStore
}

var _ store.Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:           db,
		farms:        &sqlTable[core.Farm, *core.Farm, core.FarmPatch]{db: db, m: farmMapper, now: time.Now},
		crops:        &sqlTable[core.Crop, *core.Crop, core.CropPatch]{db: db, m: cropMapper, now: time.Now},
		tasks:        &sqlTable[core.Task, *core.Task, core.TaskPatch]{db: db, m: taskMapper, now: time.Now},
		transactions: &sqlTable[core.Transaction, *core.Transaction, core.TransactionPatch]{db: db, m: transactionMapper, now: time.Now},
		weather:      &weatherStore{db: db},
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Farms() store.Farms               { return r.farms }
func (r *SQLiteRepository) Crops() store.Crops               { return r.crops }
func (r *SQLiteRepository) Tasks() store.Tasks               { return r.tasks }
func (r *SQLiteRepository) Transactions() store.Transactions { return r.transactions }
func (r *SQLiteRepository) Weather() store.WeatherReader     { return r.weather }

// Seed loads fixtures into empty tables, keeping fixture ids. Weather days are always upserted.
func (r *SQLiteRepository) Seed(ctx context.Context, set fixtures.Set) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	counts := map[string]int{}
	if counts["farms"], err = seedTable(ctx, tx, r.farms, set.Farms, now); err != nil {
		return err
	}
	if counts["crops"], err = seedTable(ctx, tx, r.crops, set.Crops, now); err != nil {
		return err
	}
	if counts["tasks"], err = seedTable(ctx, tx, r.tasks, set.Tasks, now); err != nil {
		return err
	}
	if counts["transactions"], err = seedTable(ctx, tx, r.transactions, set.Transactions, now); err != nil {
		return err
	}
	for _, d := range set.Weather {
		if err := r.weather.upsert(ctx, tx, d); err != nil {
			return fmt.Errorf("seed weather %s: %w", d.Date, err)
		}
	}
	counts["weather"] = len(set.Weather)

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	slog.InfoContext(ctx, "SQLite fixtures seeded",
		"farms", counts["farms"],
		"crops", counts["crops"],
		"tasks", counts["tasks"],
		"transactions", counts["transactions"],
		"weather", counts["weather"])
	return nil
}

func seedTable[T any, PT core.Record[T], P core.Patch[PT]](ctx context.Context, tx *sql.Tx, t *sqlTable[T, PT, P], recs []T, now time.Time) (int, error) {
	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.m.table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.m.table, err)
	}
	if n > 0 {
		return 0, nil
	}
	for _, rec := range recs {
		h := PT(&rec).Header()
		if h.Revision <= 0 {
			h.Revision = 1
		}
		if h.CreatedAt.IsZero() {
			h.CreatedAt = now
		}
		if _, err := t.insert(ctx, tx, &rec); err != nil {
			return 0, fmt.Errorf("seed %s %d: %w", t.m.entity, h.ID, err)
		}
	}
	return len(recs), nil
}

// PendingLedgerSync identifies a transaction whose ledger row is out of date.
type PendingLedgerSync struct {
	ID        int64
	Revision  int64
	CreatedAt time.Time
}

// PendingLedgerSync returns up to limit transactions awaiting ledger sync, oldest first.
func (r *SQLiteRepository) PendingLedgerSync(ctx context.Context, limit int) ([]PendingLedgerSync, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, revision, created_at FROM transactions
WHERE ledger_status = 'pending' ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending ledger sync: %w", err)
	}
	defer rows.Close()

	var out []PendingLedgerSync
	for rows.Next() {
		var p PendingLedgerSync
		if err := rows.Scan(&p.ID, &p.Revision, timeText{&p.CreatedAt}); err != nil {
			return nil, fmt.Errorf("scan pending ledger sync: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkLedgerSynced marks a transaction as mirrored, unless it changed since revision.
func (r *SQLiteRepository) MarkLedgerSynced(ctx context.Context, id, revision int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions
SET ledger_status = 'synced', ledger_synced_at = ?, ledger_error = NULL
WHERE id = ? AND revision = ?`, formatTime(time.Now()), id, revision)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction marked as synced", "id", id, "revision", revision)
	return nil
}

// MarkLedgerSyncError records a failed sync attempt
func (r *SQLiteRepository) MarkLedgerSyncError(ctx context.Context, id int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET ledger_status = 'error', ledger_error = ? WHERE id = ?`, msg, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}

	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id, "error", msg)
	return nil
}

// RetryLedgerErrors puts failed transactions back in the pending queue.
func (r *SQLiteRepository) RetryLedgerErrors(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET ledger_status = 'pending' WHERE ledger_status = 'error'`)
	if err != nil {
		return 0, fmt.Errorf("retry ledger errors: %w", err)
	}
	return res.RowsAffected()
}
