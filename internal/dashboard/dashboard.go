// Package dashboard implements the per-entity views of the bookkeeping dashboard on top of
// the remote API and the shared store.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/ledger"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

// API is the subset of the bookkeeping API the views use. *apiclient.Client implements it.
type API interface {
	ListCustomers(ctx context.Context) (apiclient.Page[ledger.Customer], error)
	CreateCustomer(ctx context.Context, in ledger.CustomerInput) (ledger.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in ledger.CustomerInput) (ledger.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (string, error)

	ListSales(ctx context.Context, limit, offset int) (apiclient.Page[ledger.Sale], error)
	SaveSale(ctx context.Context, id string, in ledger.SaleInput) (ledger.Sale, error)
	DeleteSale(ctx context.Context, id string) (string, error)

	ListPayments(ctx context.Context, limit, offset int) (apiclient.Page[ledger.Payment], error)
	SavePayment(ctx context.Context, id string, in ledger.PaymentInput) (ledger.Payment, error)
	DeletePayment(ctx context.Context, id string) (string, error)

	ListTransactions(ctx context.Context, limit, offset int) (apiclient.Page[ledger.Transaction], error)
	ListBalances(ctx context.Context, limit, offset int) (apiclient.Page[ledger.Balance], error)
	ListLogs(ctx context.Context, limit, offset int) (apiclient.Page[ledger.Log], error)
	ClearLogs(ctx context.Context) (string, error)

	ListBackups(ctx context.Context) ([]ledger.Backup, error)
	CreateBackup(ctx context.Context) (string, error)
	CleanupBackups(ctx context.Context) ([]string, error)
	ResetDatabase(ctx context.Context) (string, error)
}

var _ API = (*apiclient.Client)(nil)

var (
	// ErrDeleteRefused is matched by a *Refusal.
	ErrDeleteRefused = errors.New("delete refused")
	// ErrUnknownEntity is returned for an entity name no view serves.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Failure is a failed API action, rendered the way the dashboard reports it to the user:
// "Failed to <action>: <reason>".
type Failure struct {
	Action string
	Err    error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("Failed to %s: %s", f.Action, apiclient.Message(f.Err))
}

func (f *Failure) Unwrap() error { return f.Err }

func failed(action string, err error) error {
	return &Failure{Action: action, Err: err}
}

// Refusal is returned when a customer still has sales or payments.
type Refusal struct {
	Message string
}

func (r *Refusal) Error() string { return r.Message }

// Is makes errors.Is(err, ErrDeleteRefused) match.
func (r *Refusal) Is(target error) bool { return target == ErrDeleteRefused }

// Query is a list request: the list state plus whether to bypass what the store holds.
type Query struct {
	listview.Query
	Refresh bool
}

// List is one rendered page of a view.
type List[T any] struct {
	listview.Page[T]
	Sort  string             `json:"sort"`
	Order listview.Direction `json:"order"`
	Term  string             `json:"q,omitempty"`
	Error string             `json:"error,omitempty"`
}

// Eligibility scopes, see Options.
const (
	// ScopeLoaded checks deletion eligibility against the sales and payments already loaded.
	ScopeLoaded = "loaded"
	// ScopeFull pages through every sale and payment on the server first.
	ScopeFull = "full"
)

// Options tune the views.
type Options struct {
	// EligibilityScope selects what a customer deletion check looks at: the sales and
	// payments already loaded (ScopeLoaded) or every one on the server (ScopeFull).
	EligibilityScope string
	// Now is the clock used for locally stamped records. Nil means time.Now.
	Now func() time.Time
}

// Dashboard bundles every view over one store.
type Dashboard struct {
	Customers    *Customers
	Sales        *Sales
	Payments     *Payments
	Transactions *Transactions
	Balances     *Balances
	Logs         *Logs
	Backups      *Backups

	api    API
	store  *store.Store
	logger *zap.Logger
}

// New wires the views. The store is shared by all of them.
func New(api API, st *store.Store, rules *forms.Rules, logger *zap.Logger, opts Options) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.EligibilityScope == "" {
		opts.EligibilityScope = ScopeLoaded
	}

	d := &Dashboard{api: api, store: st, logger: logger}
	d.Sales = newSales(api, st, rules, logger)
	d.Payments = newPayments(api, st, rules, logger)
	d.Customers = newCustomers(api, st, rules, d.Sales, d.Payments, logger, opts)
	d.Sales.customers = d.Customers
	d.Payments.customers = d.Customers
	d.Transactions = newTransactions(api, st, logger)
	d.Balances = newBalances(api, st, logger)
	d.Logs = newLogs(api, st, logger)
	d.Backups = newBackups(api, st, logger, opts.Now)
	return d
}
