// Package services composes the local SQLite store with the async sync queue.
// Writes land locally first; the broker only carries hints for the worker.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gagebu/internal/core"
	"gagebu/internal/ledger"
	"gagebu/internal/storage"
)

// SyncPublisher enqueues reconcile requests for the sync worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, attempt int64) error
	PublishTransactionDelete(ctx context.Context, remoteID string) error
	Close() error
}

// TransactionService is the sqlite backend. Reads come straight from the
// local store; writes are persisted locally and then queued for the worker.
// A broken broker degrades to local-only, never to a failed request.
type TransactionService struct {
	local     *storage.SQLiteRepository
	publisher SyncPublisher
}

var _ ledger.Store = (*TransactionService)(nil)

func NewTransactionService(local *storage.SQLiteRepository, publisher SyncPublisher) *TransactionService {
	return &TransactionService{local: local, publisher: publisher}
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.local.ListTransactions(ctx)
}

func (s *TransactionService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.local.ListAccounts(ctx)
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.local.GetTransaction(ctx, id)
}

func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	ref, err := s.local.CreateTransaction(ctx, t)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse transaction id", "ref", ref, "error", err)
		return ref, nil
	}

	s.publishSync(ctx, id)
	return ref, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := s.local.UpdateTransaction(ctx, t); err != nil {
		return err
	}

	id, err := strconv.ParseInt(t.ID, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse transaction id", "id", t.ID, "error", err)
		return nil
	}

	s.publishSync(ctx, id)
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	remoteID, err := s.local.GetRemoteID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.local.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	// Rows that never reached the remote ledger have nothing to delete there.
	if remoteID == "" || s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishTransactionDelete(ctx, remoteID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "remote_id", remoteID, "error", err)
	}
	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, id int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Sync publisher not available, row stays pending", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, 0); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}
}

// Close closes the store and the broker connection.
func (s *TransactionService) Close() error {
	var errs []error

	if s.local != nil {
		if err := s.local.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}
	return nil
}
