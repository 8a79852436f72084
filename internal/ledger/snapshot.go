package ledger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gagebu/internal/core"
)

// Snapshot is one consistent read of the remote store: the account catalog
// and the transaction list already classified against it.
type Snapshot struct {
	Catalog      core.Catalog
	Transactions []core.Transaction
}

// LoadSnapshot fetches transactions and accounts concurrently, then
// classifies the list against the catalog. Both fetches must succeed; a
// partial snapshot would misclassify every capital movement.
func LoadSnapshot(ctx context.Context, txs TransactionLister, accts AccountLister) (Snapshot, error) {
	var (
		transactions []core.Transaction
		accounts     []core.Account
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = txs.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accounts, err = accts.ListAccounts(gctx)
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	catalog := core.NewCatalog(accounts)
	return Snapshot{
		Catalog:      catalog,
		Transactions: catalog.Classify(transactions),
	}, nil
}
