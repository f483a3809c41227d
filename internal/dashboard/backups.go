package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/ledger"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

// MsgDatabaseReset is shown after the database is reset.
const MsgDatabaseReset = "Database reset successfully"

// Backups is the backup administration view. Backups are listed in API order, unpaginated.
type Backups struct {
	*pager[ledger.Backup]

	api    API
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

func newBackups(api API, st *store.Store, logger *zap.Logger, now func() time.Time) *Backups {
	cfg := listview.Config[ledger.Backup]{
		Columns: map[string]listview.Accessor[ledger.Backup]{
			"file":      func(b ledger.Backup) any { return b.File },
			"createdAt": func(b ledger.Backup) any { return b.CreatedAt },
		},
		Filter: listview.Contains(func(b ledger.Backup) string { return b.File }),
	}
	fetch := func(ctx context.Context, _, _ int) (apiclient.Page[ledger.Backup], error) {
		items, err := api.ListBackups(ctx)
		return apiclient.Page[ledger.Backup]{Items: items, Total: len(items)}, err
	}
	return &Backups{
		pager:  newPager("backups", &st.Backups, cfg, fetch, logger),
		api:    api,
		store:  st,
		logger: logger,
		now:    now,
	}
}

// Create asks the API for a new backup and lists it first.
func (b *Backups) Create(ctx context.Context) (ledger.Backup, string, error) {
	file, err := b.api.CreateBackup(ctx)
	if err != nil {
		return ledger.Backup{}, "", failed("create backup", err)
	}
	backup := ledger.Backup{File: file, CreatedAt: b.now().UTC().Format(time.RFC3339)}
	b.store.Backups.Prepend(backup)
	b.logger.Info("backup created", zap.String("file", file))
	return backup, "Backup created successfully: " + file, nil
}

// Cleanup deletes old backups on the server and drops them from the list.
func (b *Backups) Cleanup(ctx context.Context) ([]string, string, error) {
	deleted, err := b.api.CleanupBackups(ctx)
	if err != nil {
		return nil, "", failed("cleanup backups", err)
	}
	gone := make(map[string]bool, len(deleted))
	for _, f := range deleted {
		gone[f] = true
	}
	b.store.Backups.Remove(func(x ledger.Backup) bool { return gone[x.File] })
	b.logger.Info("old backups deleted", zap.Int("count", len(deleted)))
	return deleted, fmt.Sprintf("Deleted %d old backups", len(deleted)), nil
}

// Reset wipes the database on the server. Every other collection is stale afterwards and is
// refetched on next use.
func (b *Backups) Reset(ctx context.Context) (string, error) {
	if _, err := b.api.ResetDatabase(ctx); err != nil {
		return "", failed("reset database", err)
	}
	b.store.Customers.Invalidate()
	b.store.Sales.Invalidate()
	b.store.Payments.Invalidate()
	b.store.Transactions.Invalidate()
	b.store.Balances.Invalidate()
	b.store.Logs.Invalidate()
	b.logger.Warn("database reset")
	return MsgDatabaseReset, nil
}
