package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmhub/internal/core"
)

// mapper binds an entity type to its table. Meta columns (id, revision,
// created_at) are handled by sqlTable; columns lists the rest in order.
type mapper[T any] struct {
	entity  string
	table   string
	columns []string
	dest    func(*T) []any
	args    func(*T) []any
	// onUpdate is appended to the SET clause of every update.
	onUpdate string
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTable[T any, PT core.Record[T], P core.Patch[PT]] struct {
	db  *sql.DB
	m   mapper[T]
	now func() time.Time
}

func (t *sqlTable[T, PT, P]) selectSQL() string {
	return fmt.Sprintf("SELECT id, revision, created_at, %s FROM %s",
		strings.Join(t.m.columns, ", "), t.m.table)
}

func (t *sqlTable[T, PT, P]) scan(sc scanner) (T, error) {
	var rec T
	h := PT(&rec).Header()
	dest := append([]any{&h.ID, &h.Revision, timeText{&h.CreatedAt}}, t.m.dest(&rec)...)
	if err := sc.Scan(dest...); err != nil {
		return rec, err
	}
	return rec, nil
}

func (t *sqlTable[T, PT, P]) List(ctx context.Context) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.selectSQL()+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.m.table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.m.entity, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (t *sqlTable[T, PT, P]) get(ctx context.Context, q execer, id int64) (T, error) {
	rec, err := t.scan(q.QueryRowContext(ctx, t.selectSQL()+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, core.NotFound(t.m.entity, id)
	}
	if err != nil {
		return rec, fmt.Errorf("get %s %d: %w", t.m.entity, id, err)
	}
	return rec, nil
}

func (t *sqlTable[T, PT, P]) Get(ctx context.Context, id int64) (T, error) {
	return t.get(ctx, t.db, id)
}

// insert writes rec with its Meta. A zero id lets SQLite assign the next one.
func (t *sqlTable[T, PT, P]) insert(ctx context.Context, q execer, rec *T) (int64, error) {
	h := PT(rec).Header()
	cols := append([]string{"revision", "created_at"}, t.m.columns...)
	args := append([]any{h.Revision, formatTime(h.CreatedAt)}, t.m.args(rec)...)
	if h.ID > 0 {
		cols = append([]string{"id"}, cols...)
		args = append([]any{h.ID}, args...)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.m.table, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (t *sqlTable[T, PT, P]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := PT(&rec).Validate(); err != nil {
		return zero, fmt.Errorf("create %s: %w", t.m.entity, err)
	}
	*PT(&rec).Header() = core.Meta{Revision: 1, CreatedAt: t.now().UTC()}
	id, err := t.insert(ctx, t.db, &rec)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", t.m.entity, err)
	}
	PT(&rec).Header().ID = id
	return rec, nil
}

func (t *sqlTable[T, PT, P]) Update(ctx context.Context, id int64, patch P) (T, error) {
	var zero T
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin update %s: %w", t.m.entity, err)
	}
	defer tx.Rollback()

	cur, err := t.get(ctx, tx, id)
	if err != nil {
		return zero, err
	}
	meta := *PT(&cur).Header()
	if exp := patch.Expected(); exp != nil && *exp != meta.Revision {
		return zero, &core.ConflictError{Entity: t.m.entity, ID: id, Expected: *exp, Current: meta.Revision}
	}
	if err := patch.ApplyTo(PT(&cur)); err != nil {
		return zero, fmt.Errorf("update %s %d: %w", t.m.entity, id, err)
	}
	if err := PT(&cur).Validate(); err != nil {
		return zero, fmt.Errorf("update %s %d: %w", t.m.entity, id, err)
	}
	meta.Revision++
	*PT(&cur).Header() = meta

	sets := make([]string, 0, len(t.m.columns)+1)
	sets = append(sets, "revision = ?")
	for _, c := range t.m.columns {
		sets = append(sets, c+" = ?")
	}
	query := fmt.Sprintf("UPDATE %s SET %s%s WHERE id = ? AND revision = ?",
		t.m.table, strings.Join(sets, ", "), t.m.onUpdate)
	args := append([]any{meta.Revision}, t.m.args(&cur)...)
	args = append(args, id, meta.Revision-1)

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("update %s %d: %w", t.m.entity, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return zero, &core.ConflictError{Entity: t.m.entity, ID: id, Expected: meta.Revision - 1, Current: meta.Revision}
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit update %s %d: %w", t.m.entity, id, err)
	}
	return cur, nil
}

func (t *sqlTable[T, PT, P]) Delete(ctx context.Context, id int64) (T, error) {
	var zero T
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("begin delete %s: %w", t.m.entity, err)
	}
	defer tx.Rollback()

	rec, err := t.get(ctx, tx, id)
	if err != nil {
		return zero, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.m.table+" WHERE id = ?", id); err != nil {
		return zero, fmt.Errorf("delete %s %d: %w", t.m.entity, id, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit delete %s %d: %w", t.m.entity, id, err)
	}
	return rec, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
