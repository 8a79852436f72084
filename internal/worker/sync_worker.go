// Package worker replays locally written transactions against the remote
// ledger endpoint.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gagebu/internal/amqp"
	"gagebu/internal/ledger"
	"gagebu/internal/storage"
)

// RemoteStore is the write surface of the remote ledger the worker syncs to.
type RemoteStore interface {
	ledger.TransactionWriter
	ledger.TransactionUpdater
	ledger.TransactionDeleter
}

type SyncWorker struct {
	local     *storage.SQLiteRepository
	remote    RemoteStore
	batchSize int
}

func NewSyncWorker(local *storage.SQLiteRepository, remote RemoteStore, batchSize int) *SyncWorker {
	return &SyncWorker{
		local:     local,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one queue message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"op", msg.Op,
		"id", msg.ID,
		"remote_id", msg.RemoteID)

	switch msg.Op {
	case amqp.OpUpsert:
		return w.syncRow(ctx, msg.ID)
	case amqp.OpDelete:
		return w.deleteRemote(ctx, msg.RemoteID)
	default:
		// Unknown ops are dropped, requeueing them can never succeed.
		slog.WarnContext(ctx, "Dropping message with unknown op", "op", msg.Op)
		return nil
	}
}

// syncRow pushes the current state of one local row to the remote ledger.
// Rows without a remote id are created, the rest are updated in place.
func (w *SyncWorker) syncRow(ctx context.Context, id int64) error {
	row, err := w.local.GetSyncRow(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Deleted between enqueue and delivery, nothing left to push.
		slog.WarnContext(ctx, "Local row gone before sync, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get sync row: %w", err)
	}

	remoteID := row.RemoteID
	if remoteID == "" {
		t := row.Transaction
		t.ID = ""
		remoteID, err = w.remote.CreateTransaction(ctx, t)
		if err != nil {
			w.markError(ctx, id)
			return fmt.Errorf("create remote transaction: %w", err)
		}
	} else {
		t := row.Transaction
		t.ID = remoteID
		if err := w.remote.UpdateTransaction(ctx, t); err != nil {
			w.markError(ctx, id)
			return fmt.Errorf("update remote transaction: %w", err)
		}
	}

	if err := w.local.MarkSynced(ctx, id, remoteID); err != nil {
		// The push succeeded, only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced transaction",
		"id", id,
		"remote_id", remoteID)
	return nil
}

func (w *SyncWorker) deleteRemote(ctx context.Context, remoteID string) error {
	if remoteID == "" {
		slog.WarnContext(ctx, "Delete message without remote id, skipping")
		return nil
	}
	err := w.remote.DeleteTransaction(ctx, remoteID)
	if errors.Is(err, ledger.ErrNotFound) {
		slog.WarnContext(ctx, "Remote transaction already gone", "remote_id", remoteID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete remote transaction: %w", err)
	}
	slog.InfoContext(ctx, "Deleted remote transaction", "remote_id", remoteID)
	return nil
}

// ProcessPendingTransactions replays rows the queue missed. This is a backup
// mechanism in case broker messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.local.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.syncRow(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction", "id", p.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains rows left pending across worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.local.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.syncRow(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) markError(ctx context.Context, id int64) {
	if err := w.local.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
