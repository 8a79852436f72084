// Package ledger defines the ports to the external transaction store. The
// core never does I/O; adapters under ledger/ implement these interfaces
// against the remote web endpoint, the Sheets API, SQLite or memory.
package ledger

import (
	"context"
	"errors"

	"gagebu/internal/core"
)

// ErrNotFound is returned by point lookups when no transaction carries the
// requested id.
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound adapters.
type (
	TransactionLister interface {
		// ListTransactions returns the full transaction list, unclassified.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	AccountLister interface {
		// ListAccounts returns the chart of accounts.
		ListAccounts(ctx context.Context) ([]core.Account, error)
	}

	TransactionGetter interface {
		// GetTransaction returns one transaction by id, ErrNotFound when absent.
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	}

	TransactionWriter interface {
		// CreateTransaction persists a new transaction and returns its store id.
		CreateTransaction(ctx context.Context, t core.Transaction) (id string, err error)
	}

	TransactionUpdater interface {
		// UpdateTransaction replaces the user-editable fields of the
		// transaction with the given id.
		UpdateTransaction(ctx context.Context, t core.Transaction) error
	}

	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id string) error
	}
)

// Store is the full read/write surface a backend provides.
type Store interface {
	TransactionLister
	AccountLister
	TransactionGetter
	TransactionWriter
	TransactionUpdater
	TransactionDeleter
}
