package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/ledger"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

// Messages shown after a customer change succeeds.
const (
	MsgCustomerCreated = "Customer created successfully"
	MsgCustomerUpdated = "Customer updated successfully"
	MsgCustomerDeleted = "Customer deleted successfully"
)

// fullScanPageSize is the page size used when walking every sale or payment on the server.
const fullScanPageSize = 100

// Customers is the customer view.
type Customers struct {
	*pager[ledger.Customer]

	api      API
	store    *store.Store
	rules    *forms.Rules
	sales    *Sales
	payments *Payments
	logger   *zap.Logger
	scope    string
	now      func() time.Time
}

func newCustomers(api API, st *store.Store, rules *forms.Rules, sales *Sales, payments *Payments, logger *zap.Logger, opts Options) *Customers {
	cfg := listview.Config[ledger.Customer]{
		PageSize: 5,
		Columns: map[string]listview.Accessor[ledger.Customer]{
			"CustomerID":   func(c ledger.Customer) any { return c.CustomerID },
			"CustomerName": func(c ledger.Customer) any { return c.CustomerName },
			"CreatedAt":    func(c ledger.Customer) any { return c.CreatedAt },
		},
		Filter:    listview.Contains(func(c ledger.Customer) string { return c.CustomerName }),
		SortField: "CustomerName",
		Direction: listview.Asc,
	}
	fetch := func(ctx context.Context, _, _ int) (apiclient.Page[ledger.Customer], error) {
		return api.ListCustomers(ctx)
	}
	return &Customers{
		pager:    newPager("customers", &st.Customers, cfg, fetch, logger),
		api:      api,
		store:    st,
		rules:    rules,
		sales:    sales,
		payments: payments,
		logger:   logger,
		scope:    opts.EligibilityScope,
		now:      opts.Now,
	}
}

// Load fetches every customer.
func (c *Customers) Load(ctx context.Context) error {
	return c.pager.Load(ctx, 1)
}

// Options returns the customers offered by the sale and payment dialogs, loading them first
// if needed.
func (c *Customers) Options(ctx context.Context) ([]ledger.Customer, error) {
	items, _, err := c.current(ctx, 1, false)
	return items, err
}

// Name resolves a customer id against the loaded customers.
func (c *Customers) Name(id string) string {
	for _, cu := range c.store.Customers.Items() {
		if cu.CustomerID == id {
			return cu.CustomerName
		}
	}
	return ""
}

func (c *Customers) find(id string) (ledger.Customer, bool) {
	for _, cu := range c.store.Customers.Items() {
		if cu.CustomerID == id {
			return cu, true
		}
	}
	return ledger.Customer{}, false
}

// Save creates a customer when id is empty and renames customer id otherwise. values are the
// dialog fields as typed; the stored name is title-cased.
func (c *Customers) Save(ctx context.Context, id string, values map[string]string) (ledger.Customer, forms.Errors, error) {
	form := forms.NewCustomerForm(c.rules)
	var touched []string
	if existing, ok := c.find(id); ok && id != "" {
		form.CustomerName = existing.CustomerName
		touched = []string{"CustomerName"}
	}

	var saved ledger.Customer
	errs, err := submit(ctx, form, touched, values, func(ctx context.Context, f *forms.CustomerForm) error {
		in := f.Input()
		stamp := c.now().UTC().Format(time.RFC3339)

		if id == "" {
			created, err := c.api.CreateCustomer(ctx, in)
			if err != nil {
				return failed("create customer", err)
			}
			if created.CustomerName == "" {
				created.CustomerName = in.CustomerName
			}
			if created.CreatedAt == "" {
				created.CreatedAt = stamp
			}
			c.store.Customers.Append(created)
			saved = created
			c.logger.Info("customer created", zap.String("customer_id", created.CustomerID))
			return nil
		}

		updated, err := c.api.UpdateCustomer(ctx, id, in)
		if err != nil {
			return failed("update customer", err)
		}
		if updated.UpdatedAt != "" {
			stamp = updated.UpdatedAt
		}
		saved = ledger.Customer{CustomerID: id, CustomerName: in.CustomerName, UpdatedAt: stamp}
		c.store.Customers.Update(
			func(cu ledger.Customer) bool { return cu.CustomerID == id },
			func(cu ledger.Customer) ledger.Customer {
				cu.CustomerName = in.CustomerName
				cu.UpdatedAt = stamp
				saved = cu
				return cu
			},
		)
		c.logger.Info("customer updated", zap.String("customer_id", id))
		return nil
	})
	return saved, errs, err
}

// CheckDelete reports whether customer id may be deleted.
func (c *Customers) CheckDelete(ctx context.Context, id string) (ledger.Eligibility, error) {
	sales, payments, err := c.references(ctx)
	if err != nil {
		return ledger.Eligibility{}, err
	}
	return ledger.CanDeleteCustomer(id, sales, payments), nil
}

// references gathers the sales and payments an eligibility check looks at.
func (c *Customers) references(ctx context.Context) ([]ledger.Sale, []ledger.Payment, error) {
	var (
		sales    []ledger.Sale
		payments []ledger.Payment
	)
	g, gctx := errgroup.WithContext(ctx)

	if c.scope == ScopeFull {
		g.Go(func() (err error) {
			sales, err = collectAll[ledger.Sale](gctx, c.api.ListSales)
			if err != nil {
				return failed("fetch sales", err)
			}
			return nil
		})
		g.Go(func() (err error) {
			payments, err = collectAll[ledger.Payment](gctx, c.api.ListPayments)
			if err != nil {
				return failed("fetch payments", err)
			}
			return nil
		})
	} else {
		g.Go(func() (err error) {
			sales, _, err = c.sales.current(gctx, c.sales.loadedPage(), false)
			return err
		})
		g.Go(func() (err error) {
			payments, _, err = c.payments.current(gctx, c.payments.loadedPage(), false)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sales, payments, nil
}

func collectAll[T any](ctx context.Context, fetch fetchFunc[T]) ([]T, error) {
	var all []T
	for offset := 0; ; offset += fullScanPageSize {
		page, err := fetch(ctx, fullScanPageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < fullScanPageSize || len(all) >= page.Total {
			return all, nil
		}
	}
}

// Delete removes customer id after an eligibility check. A customer that still has sales or
// payments is refused with a *Refusal and the API is never called.
func (c *Customers) Delete(ctx context.Context, id string) (string, error) {
	elig, err := c.CheckDelete(ctx, id)
	if err != nil {
		return "", err
	}
	if !elig.CanDelete {
		c.logger.Info("customer deletion refused", zap.String("customer_id", id), zap.String("reason", elig.Message))
		return "", &Refusal{Message: elig.Message}
	}
	if _, err := c.api.DeleteCustomer(ctx, id); err != nil {
		return "", failed("delete customer", err)
	}
	c.store.Customers.Remove(func(cu ledger.Customer) bool { return cu.CustomerID == id })
	c.logger.Info("customer deleted", zap.String("customer_id", id))
	return MsgCustomerDeleted, nil
}
