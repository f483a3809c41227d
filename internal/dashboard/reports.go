package dashboard

import (
	"context"

	"go.uber.org/zap"

	"sales_dashboard/internal/ledger"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

// MsgLogsCleared is shown after the activity log is cleared.
const MsgLogsCleared = "Logs cleared successfully"

// Transactions is the read-only transactions view.
type Transactions struct {
	*pager[ledger.Transaction]
}

func newTransactions(api API, st *store.Store, logger *zap.Logger) *Transactions {
	cfg := listview.Config[ledger.Transaction]{
		PageSize: 10,
		Remote:   true,
		Columns: map[string]listview.Accessor[ledger.Transaction]{
			"TransactionID":   func(t ledger.Transaction) any { return t.TransactionID },
			"Type":            func(t ledger.Transaction) any { return t.Type },
			"Date":            func(t ledger.Transaction) any { return t.Date },
			"CustomerName":    func(t ledger.Transaction) any { return t.CustomerName },
			"Quantity":        func(t ledger.Transaction) any { return t.Quantity },
			"Rate":            func(t ledger.Transaction) any { return t.Rate },
			"VehicleRent":     func(t ledger.Transaction) any { return t.VehicleRent },
			"Amount":          func(t ledger.Transaction) any { return t.Amount },
			"PaymentMethod":   func(t ledger.Transaction) any { return t.PaymentMethod },
			"PaymentReceived": func(t ledger.Transaction) any { return t.PaymentReceived },
			"Remarks":         func(t ledger.Transaction) any { return t.Remarks },
		},
		Filter:    listview.Contains(func(t ledger.Transaction) string { return t.CustomerName }),
		SortField: "Date",
		Direction: listview.Desc,
	}
	return &Transactions{pager: newPager("transactions", &st.Transactions, cfg, api.ListTransactions, logger)}
}

// Balances is the read-only per-customer balances view.
type Balances struct {
	*pager[ledger.Balance]
}

func newBalances(api API, st *store.Store, logger *zap.Logger) *Balances {
	cfg := listview.Config[ledger.Balance]{
		PageSize: 10,
		Remote:   true,
		Columns: map[string]listview.Accessor[ledger.Balance]{
			"CustomerID":     func(b ledger.Balance) any { return b.CustomerID },
			"CustomerName":   func(b ledger.Balance) any { return b.CustomerName },
			"TotalSales":     func(b ledger.Balance) any { return b.TotalSales },
			"TotalPayments":  func(b ledger.Balance) any { return b.TotalPayments },
			"PendingBalance": func(b ledger.Balance) any { return b.PendingBalance },
		},
		Filter:    listview.Contains(func(b ledger.Balance) string { return b.CustomerName }),
		SortField: "CustomerName",
		Direction: listview.Asc,
	}
	return &Balances{pager: newPager("balances", &st.Balances, cfg, api.ListBalances, logger)}
}

// Logs is the activity log view.
type Logs struct {
	*pager[ledger.Log]

	api    API
	store  *store.Store
	logger *zap.Logger
}

func newLogs(api API, st *store.Store, logger *zap.Logger) *Logs {
	details := listview.Contains(func(l ledger.Log) string { return l.Details })
	action := listview.Contains(func(l ledger.Log) string { return l.Action })
	cfg := listview.Config[ledger.Log]{
		PageSize: 10,
		Remote:   true,
		Columns: map[string]listview.Accessor[ledger.Log]{
			"LogID":     func(l ledger.Log) any { return l.LogID },
			"Timestamp": func(l ledger.Log) any { return l.Timestamp },
			"Action":    func(l ledger.Log) any { return l.Action },
			"RecordID":  func(l ledger.Log) any { return l.RecordID },
			"Details":   func(l ledger.Log) any { return l.Details },
		},
		Filter: func(l ledger.Log, term string) bool {
			return details(l, term) || action(l, term)
		},
		SortField: "Timestamp",
		Direction: listview.Desc,
	}
	return &Logs{
		pager:  newPager("logs", &st.Logs, cfg, api.ListLogs, logger),
		api:    api,
		store:  st,
		logger: logger,
	}
}

// Clear deletes every log entry.
func (l *Logs) Clear(ctx context.Context) (string, error) {
	if _, err := l.api.ClearLogs(ctx); err != nil {
		return "", failed("clear logs", err)
	}
	l.store.Logs.Clear()
	l.logger.Info("logs cleared")
	return MsgLogsCleared, nil
}
