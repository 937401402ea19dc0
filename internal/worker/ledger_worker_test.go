package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/amqp"
	"farmhub/internal/core"
	"farmhub/internal/fixtures"
	"farmhub/internal/sheets"
	ledgermem "farmhub/internal/sheets/memory"
	"farmhub/internal/storage"
	"farmhub/internal/store/memory"
)

func memoryRepo(t *testing.T) *memory.Store {
	t.Helper()
	set, err := fixtures.Load()
	be.NilErr(t, err)
	return memory.New(set, memory.WithLatency(memory.NoLatency))
}

func sqliteRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "farmhub.db"))
	be.NilErr(t, err)
	t.Cleanup(func() { repo.Close() })
	set, err := fixtures.Load()
	be.NilErr(t, err)
	be.NilErr(t, repo.Seed(context.Background(), set))
	return repo
}

func msg(entity string, action amqp.Action, id int64) *amqp.ChangeMessage {
	return amqp.NewChangeMessage(entity, action, id, 1, 1)
}

type failingLedger struct {
	sheets.Ledger
}

func (failingLedger) Append(context.Context, sheets.LedgerRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingLedger) Delete(context.Context, int64) (int, error) { return 0, nil }

func TestHandleChangeAppendsRow(t *testing.T) {
	ctx := context.Background()
	ledger := ledgermem.New()
	w := NewLedgerWorker(memoryRepo(t), ledger, nil, 10)

	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionCreated, 1)))

	rows := ledger.Rows(2024)
	be.Equal(t, 1, len(rows))
	be.Equal(t, "Green Valley Farm", rows[0].Farm)
	be.Equal(t, "Corn", rows[0].Crop)
	be.Equal(t, "Seeds", rows[0].Category)
}

func TestHandleChangeUpdateReplacesRow(t *testing.T) {
	ctx := context.Background()
	repo := memoryRepo(t)
	ledger := ledgermem.New()
	w := NewLedgerWorker(repo, ledger, nil, 10)

	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionCreated, 2)))

	desc := "Diesel, 200 gallons"
	_, err := repo.Transactions().Update(ctx, 2, core.TransactionPatch{Description: &desc})
	be.NilErr(t, err)
	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionUpdated, 2)))

	rows := ledger.Rows(2024)
	be.Equal(t, 1, len(rows))
	be.Equal(t, desc, rows[0].Description)
}

func TestHandleChangeDeleteRemovesRow(t *testing.T) {
	ctx := context.Background()
	repo := memoryRepo(t)
	ledger := ledgermem.New()
	w := NewLedgerWorker(repo, ledger, nil, 10)

	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionCreated, 3)))
	_, err := repo.Transactions().Delete(ctx, 3)
	be.NilErr(t, err)

	// a stale created event for a deleted transaction removes the row too
	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionUpdated, 3)))
	be.Equal(t, 0, len(ledger.Rows(2024)))

	be.NilErr(t, w.HandleChange(ctx, msg(core.EntityTransaction, amqp.ActionDeleted, 3)))
}

func TestHandleChangeIgnoresOtherEntities(t *testing.T) {
	ledger := ledgermem.New()
	w := NewLedgerWorker(memoryRepo(t), ledger, nil, 10)
	be.NilErr(t, w.HandleChange(context.Background(), msg(core.EntityTask, amqp.ActionOverdue, 1)))
	be.Equal(t, 0, len(ledger.Rows(2024)))
}

func TestHandleChangeLedgerFailureRequeues(t *testing.T) {
	w := NewLedgerWorker(memoryRepo(t), failingLedger{}, nil, 10)
	err := w.HandleChange(context.Background(), msg(core.EntityTransaction, amqp.ActionCreated, 1))
	be.Nonzero(t, err)
}

func TestProcessPendingWithSQLite(t *testing.T) {
	ctx := context.Background()
	repo := sqliteRepo(t)
	ledger := ledgermem.New()
	w := NewLedgerWorker(repo, ledger, repo, 4)

	be.NilErr(t, w.StartupSyncCheck(ctx))
	be.Equal(t, 10, len(ledger.Rows(2024)))

	pending, err := repo.PendingLedgerSync(ctx, 100)
	be.NilErr(t, err)
	be.Equal(t, 0, len(pending))

	// an update puts the transaction back in the queue
	amount := core.Money{Cents: 99900}
	_, err = repo.Transactions().Update(ctx, 4, core.TransactionPatch{Amount: &amount})
	be.NilErr(t, err)
	n, err := w.ProcessPending(ctx)
	be.NilErr(t, err)
	be.Equal(t, 1, n)
	be.Equal(t, 10, len(ledger.Rows(2024)))
}

func TestProcessPendingMarksErrors(t *testing.T) {
	ctx := context.Background()
	repo := sqliteRepo(t)
	w := NewLedgerWorker(repo, failingLedger{}, repo, 20)

	n, err := w.ProcessPending(ctx)
	be.NilErr(t, err)
	be.Equal(t, 0, n)

	pending, err := repo.PendingLedgerSync(ctx, 100)
	be.NilErr(t, err)
	be.Equal(t, 0, len(pending))

	retried, err := repo.RetryLedgerErrors(ctx)
	be.NilErr(t, err)
	be.Equal(t, int64(10), retried)
}

func TestProcessPendingWithoutTracker(t *testing.T) {
	w := NewLedgerWorker(memoryRepo(t), ledgermem.New(), nil, 0)
	n, err := w.ProcessPending(context.Background())
	be.NilErr(t, err)
	be.Equal(t, 0, n)
	be.NilErr(t, w.StartupSyncCheck(context.Background()))
}
