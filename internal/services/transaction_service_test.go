package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gagebu/internal/core"
	"gagebu/internal/storage"
)

type fakePublisher struct {
	syncIDs   []int64
	deleteIDs []string
	err       error
}

func (f *fakePublisher) PublishTransactionSync(ctx context.Context, id, attempt int64) error {
	f.syncIDs = append(f.syncIDs, id)
	return f.err
}

func (f *fakePublisher) PublishTransactionDelete(ctx context.Context, remoteID string) error {
	f.deleteIDs = append(f.deleteIDs, remoteID)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func testService(t *testing.T, pub SyncPublisher) (*TransactionService, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"), core.NewDayNormalizer("UTC"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewTransactionService(repo, pub), repo
}

func sample() core.Transaction {
	return core.Transaction{
		Date:          core.Day{Year: 2024, Month: 5, Date: 1},
		Intent:        core.IntentIncome,
		Amount:        50000,
		DebitAccount:  "Cash",
		CreditAccount: "Sales",
		Resolved:      core.ResolvedIncome,
	}
}

func TestCreatePublishesSync(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := testService(t, pub)

	ref, err := svc.CreateTransaction(context.Background(), sample())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if ref == "" {
		t.Fatal("expected a non-empty ref")
	}
	if len(pub.syncIDs) != 1 {
		t.Fatalf("sync messages = %d, want 1", len(pub.syncIDs))
	}
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := testService(t, pub)
	ctx := context.Background()

	ref, err := svc.CreateTransaction(ctx, sample())
	if err != nil {
		t.Fatalf("create must not fail on publish error: %v", err)
	}
	if _, err := svc.GetTransaction(ctx, ref); err != nil {
		t.Fatalf("row must exist locally: %v", err)
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc, repo := testService(t, nil)
	ctx := context.Background()

	if _, err := svc.CreateTransaction(ctx, sample()); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("GetPendingSyncTransactions: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("row must stay pending without a publisher, got %d", len(pending))
	}
}

func TestUpdatePublishesSync(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := testService(t, pub)
	ctx := context.Background()

	ref, err := svc.CreateTransaction(ctx, sample())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	edited := sample()
	edited.ID = ref
	edited.Amount = 60000
	if err := svc.UpdateTransaction(ctx, edited); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if len(pub.syncIDs) != 2 {
		t.Fatalf("sync messages = %d, want 2", len(pub.syncIDs))
	}
}

func TestDeleteSyncedRowPublishesRemoteDelete(t *testing.T) {
	pub := &fakePublisher{}
	svc, repo := testService(t, pub)
	ctx := context.Background()

	ref, err := svc.CreateTransaction(ctx, sample())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if err := repo.MarkSynced(ctx, pub.syncIDs[0], "remote-3"); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}

	if err := svc.DeleteTransaction(ctx, ref); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(pub.deleteIDs) != 1 || pub.deleteIDs[0] != "remote-3" {
		t.Fatalf("delete messages = %v, want [remote-3]", pub.deleteIDs)
	}
}

func TestDeleteUnsyncedRowSkipsRemoteDelete(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := testService(t, pub)
	ctx := context.Background()

	ref, err := svc.CreateTransaction(ctx, sample())
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, ref); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if len(pub.deleteIDs) != 0 {
		t.Fatalf("unsynced rows must not trigger remote deletes, got %v", pub.deleteIDs)
	}
}
