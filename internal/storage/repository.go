package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gagebu/internal/core"
	"gagebu/internal/ledger"

	_ "modernc.org/sqlite"
)

// Sync states for locally written transactions.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// SQLiteRepository is the local ledger store. Writes land here first and are
// replayed against the remote endpoint by the sync worker.
type SQLiteRepository struct {
	db         *sql.DB
	normalizer core.DayNormalizer
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, normalizer core.DayNormalizer) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, normalizer: normalizer}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const transactionColumns = `id, day, intent, resolved_type, amount, debit_account, credit_account, description, note`

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, category FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var category string
		if err := rows.Scan(&a.Name, &category); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.Category = core.AccountCategory(category)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := r.scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (string, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (day, intent, resolved_type, amount, debit_account, credit_account, description, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), string(t.Intent), string(t.Resolved), t.Amount,
		t.DebitAccount, t.CreditAccount, t.Description, t.Note)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("create transaction id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("update transaction: missing id")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
		 day = ?, intent = ?, resolved_type = ?, amount = ?,
		 debit_account = ?, credit_account = ?, description = ?, note = ?,
		 sync_status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		t.Date.String(), string(t.Intent), string(t.Resolved), t.Amount,
		t.DebitAccount, t.CreditAccount, t.Description, t.Note,
		SyncPending, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return r.checkAffected(res, "update")
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return r.checkAffected(res, "delete")
}

// PendingSyncTransaction carries the minimal row data the sync queue needs.
type PendingSyncTransaction struct {
	ID        int64
	Attempts  int64
	CreatedAt time.Time
}

// SyncRow is the full row the worker replays against the remote store. An
// empty RemoteID means the row has never reached the remote ledger.
type SyncRow struct {
	ID          int64
	RemoteID    string
	Attempts    int64
	Transaction core.Transaction
}

// GetSyncRow loads one row by local id for the sync worker.
func (r *SQLiteRepository) GetSyncRow(ctx context.Context, id int64) (SyncRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`, remote_id, sync_attempts FROM transactions WHERE id = ?`, id)

	var (
		s        SyncRow
		rowID    int64
		day      string
		intent   string
		resolved string
	)
	err := row.Scan(&rowID, &day, &intent, &resolved, &s.Transaction.Amount,
		&s.Transaction.DebitAccount, &s.Transaction.CreditAccount,
		&s.Transaction.Description, &s.Transaction.Note,
		&s.RemoteID, &s.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncRow{}, ledger.ErrNotFound
	}
	if err != nil {
		return SyncRow{}, fmt.Errorf("get sync row: %w", err)
	}
	s.ID = rowID
	s.Transaction.ID = strconv.FormatInt(rowID, 10)
	s.Transaction.Intent = core.Intent(intent)
	s.Transaction.Resolved = core.ResolvedType(resolved)
	s.Transaction.Date, err = r.normalizer.Normalize(day)
	if err != nil {
		return SyncRow{}, fmt.Errorf("parse stored day %q: %w", day, err)
	}
	return s, nil
}

// GetRemoteID returns the remote ledger id for a local row, empty when the
// row was never synced.
func (r *SQLiteRepository) GetRemoteID(ctx context.Context, id string) (string, error) {
	var remoteID string
	err := r.db.QueryRowContext(ctx,
		`SELECT remote_id FROM transactions WHERE id = ?`, id).Scan(&remoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ledger.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get remote id: %w", err)
	}
	return remoteID, nil
}

// GetPendingSyncTransactions returns locally written transactions that have
// not reached the remote store yet, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sync_attempts, created_at FROM transactions
		 WHERE sync_status = ? ORDER BY created_at LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.Attempts, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	return out, nil
}

// MarkSynced records that the transaction reached the remote store under the
// given remote id.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, remote_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		SyncDone, remoteID, id)
	if err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// MarkSyncError bumps the attempt counter and flags the row for operator
// attention. The row stays visible to reads either way.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, sync_attempts = sync_attempts + 1,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		SyncError, id)
	if err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *SQLiteRepository) scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t        core.Transaction
		id       int64
		day      string
		intent   string
		resolved string
	)
	err := row.Scan(&id, &day, &intent, &resolved, &t.Amount,
		&t.DebitAccount, &t.CreditAccount, &t.Description, &t.Note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.ID = strconv.FormatInt(id, 10)
	t.Intent = core.Intent(intent)
	t.Resolved = core.ResolvedType(resolved)
	t.Date, err = r.normalizer.Normalize(day)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored day %q: %w", day, err)
	}
	return t, nil
}

func (r *SQLiteRepository) checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s transaction: %w", op, err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
