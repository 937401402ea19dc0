// Package worker mirrors farm transactions into the spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"farmhub/internal/amqp"
	"farmhub/internal/core"
	"farmhub/internal/sheets"
	"farmhub/internal/storage"
	"farmhub/internal/store"
)

// SyncTracker records which transactions the ledger has caught up with.
// *storage.SQLiteRepository satisfies it.
type SyncTracker interface {
	PendingLedgerSync(ctx context.Context, limit int) ([]storage.PendingLedgerSync, error)
	MarkLedgerSynced(ctx context.Context, id, revision int64) error
	MarkLedgerSyncError(ctx context.Context, id int64, cause error) error
	RetryLedgerErrors(ctx context.Context) (int64, error)
}

// LedgerWorker keeps one ledger row per transaction.
type LedgerWorker struct {
	repo      store.Repository
	ledger    sheets.Ledger
	tracker   SyncTracker
	batchSize int
}

// NewLedgerWorker creates a worker. tracker may be nil, which disables the
// pending sweep and leaves event handling as the only sync path.
func NewLedgerWorker(repo store.Repository, ledger sheets.Ledger, tracker SyncTracker, batchSize int) *LedgerWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &LedgerWorker{
		repo:      repo,
		ledger:    ledger,
		tracker:   tracker,
		batchSize: batchSize,
	}
}

// HandleChange processes a single change message from AMQP. Only transaction
// changes touch the ledger; everything else is acknowledged untouched.
func (w *LedgerWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Entity != core.EntityTransaction {
		slog.DebugContext(ctx, "Ignoring change message", "entity", msg.Entity, "action", msg.Action, "id", msg.ID)
		return nil
	}

	slog.InfoContext(ctx, "Processing ledger change",
		"id", msg.ID,
		"action", msg.Action,
		"revision", msg.Revision)

	switch msg.Action {
	case amqp.ActionDeleted:
		return w.remove(ctx, msg.ID)
	case amqp.ActionCreated, amqp.ActionUpdated:
		tx, err := w.repo.Transactions().Get(ctx, msg.ID)
		if errors.Is(err, core.ErrNotFound) {
			// deleted after the event was published; its own delete event follows
			return w.remove(ctx, msg.ID)
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		return w.sync(ctx, tx)
	}
	return nil
}

// ProcessPending syncs transactions the tracker still marks as pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *LedgerWorker) ProcessPending(ctx context.Context) (int, error) {
	if w.tracker == nil {
		return 0, nil
	}
	pending, err := w.tracker.PendingLedgerSync(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	for _, p := range pending {
		tx, err := w.repo.Transactions().Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.tracker.MarkLedgerSyncError(ctx, p.ID, err); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
		if err := w.sync(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", p.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

// StartupSyncCheck requeues failed syncs and drains the pending queue.
// This is useful to recover from missed AMQP messages or worker downtime.
func (w *LedgerWorker) StartupSyncCheck(ctx context.Context) error {
	if w.tracker == nil {
		return nil
	}
	retried, err := w.tracker.RetryLedgerErrors(ctx)
	if err != nil {
		return fmt.Errorf("retry ledger errors: %w", err)
	}

	total := 0
	for {
		n, err := w.ProcessPending(ctx)
		if err != nil {
			return err
		}
		total += n
		if n < w.batchSize {
			break
		}
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"retried", retried,
		"synced", total)
	return nil
}

// Run sweeps pending transactions every interval until ctx is done.
func (w *LedgerWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending ledger sweep failed", "error", err)
			}
		}
	}
}

// sync replaces the ledger row of tx and marks the revision as synced.
func (w *LedgerWorker) sync(ctx context.Context, tx core.Transaction) error {
	if _, err := w.ledger.Delete(ctx, tx.ID); err != nil {
		w.markError(ctx, tx.ID, err)
		return fmt.Errorf("remove previous ledger row: %w", err)
	}

	row := sheets.RowFor(tx, w.farmName(ctx, tx.FarmID), w.cropName(ctx, tx.CropID))
	ref, err := w.ledger.Append(ctx, row)
	if err != nil {
		w.markError(ctx, tx.ID, err)
		return fmt.Errorf("append to ledger: %w", err)
	}

	if w.tracker != nil {
		if err := w.tracker.MarkLedgerSynced(ctx, tx.ID, tx.Revision); err != nil {
			// the row is written; the next sweep rewrites it
			slog.ErrorContext(ctx, "Failed to mark as synced", "id", tx.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", tx.ID,
		"revision", tx.Revision,
		"ledger_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (w *LedgerWorker) remove(ctx context.Context, id int64) error {
	removed, err := w.ledger.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ledger row: %w", err)
	}
	slog.InfoContext(ctx, "Removed transaction from ledger", "id", id, "rows", removed)
	return nil
}

func (w *LedgerWorker) markError(ctx context.Context, id int64, cause error) {
	if w.tracker == nil {
		return
	}
	if err := w.tracker.MarkLedgerSyncError(ctx, id, cause); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}

// farmName falls back to "#<id>" for farms that no longer exist.
func (w *LedgerWorker) farmName(ctx context.Context, id int64) string {
	farm, err := w.repo.Farms().Get(ctx, id)
	if err != nil {
		return "#" + strconv.FormatInt(id, 10)
	}
	return farm.Name
}

func (w *LedgerWorker) cropName(ctx context.Context, id *int64) string {
	if id == nil {
		return ""
	}
	crop, err := w.repo.Crops().Get(ctx, *id)
	if err != nil {
		return "#" + strconv.FormatInt(*id, 10)
	}
	return crop.Name
}
