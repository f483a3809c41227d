package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/ledger"
	"sales_dashboard/internal/listview"
	"sales_dashboard/internal/store"
)

// MsgSaleDeleted is shown after a sale is deleted.
const MsgSaleDeleted = "Sale deleted successfully"

// Sales is the sales view. The API paginates sales, so the store holds one page.
type Sales struct {
	*pager[ledger.Sale]

	api       API
	store     *store.Store
	rules     *forms.Rules
	customers *Customers
	logger    *zap.Logger
}

func newSales(api API, st *store.Store, rules *forms.Rules, logger *zap.Logger) *Sales {
	cfg := listview.Config[ledger.Sale]{
		PageSize: 10,
		Remote:   true,
		Columns: map[string]listview.Accessor[ledger.Sale]{
			"SaleID":          func(s ledger.Sale) any { return s.SaleID },
			"Date":            func(s ledger.Sale) any { return s.Date },
			"CustomerName":    func(s ledger.Sale) any { return s.CustomerName },
			"Quantity":        func(s ledger.Sale) any { return s.Quantity },
			"Rate":            func(s ledger.Sale) any { return s.Rate },
			"VehicleRent":     func(s ledger.Sale) any { return s.VehicleRent },
			"Amount":          func(s ledger.Sale) any { return s.Amount },
			"PaymentMethod":   func(s ledger.Sale) any { return s.PaymentMethod },
			"PaymentReceived": func(s ledger.Sale) any { return s.PaymentReceived },
			"Remarks":         func(s ledger.Sale) any { return s.Remarks },
		},
		Filter:    listview.Contains(func(s ledger.Sale) string { return s.CustomerName }),
		SortField: "Date",
		Direction: listview.Desc,
	}
	return &Sales{
		pager:  newPager("sales", &st.Sales, cfg, api.ListSales, logger),
		api:    api,
		store:  st,
		rules:  rules,
		logger: logger,
	}
}

// Load fetches one page of sales together with the customer list the dialog needs.
func (s *Sales) Load(ctx context.Context, page int) error {
	var g errgroup.Group
	g.Go(func() error { return s.pager.Load(ctx, page) })
	g.Go(func() error { return s.customers.Load(ctx) })
	return g.Wait()
}

func (s *Sales) find(id string) (ledger.Sale, bool) {
	for _, sale := range s.store.Sales.Items() {
		if sale.SaleID == id {
			return sale, true
		}
	}
	return ledger.Sale{}, false
}

func (s *Sales) form(id string) (*forms.SaleForm, []string) {
	if id != "" {
		if existing, ok := s.find(id); ok {
			return forms.EditSaleForm(s.rules, existing)
		}
	}
	return forms.NewSaleForm(s.rules), nil
}

// Check validates the sale dialog as typed and returns the errors for the given fields
// along with the derived amount.
func (s *Sales) Check(id string, values map[string]string) (forms.Errors, float64, error) {
	f, touched := s.form(id)
	errs, err := check(f, touched, values)
	return errs, f.Amount(), err
}

// Save creates a sale when id is empty and edits sale id otherwise. A new sale goes to the
// top of the list; an edit replaces the row in place.
func (s *Sales) Save(ctx context.Context, id string, values map[string]string) (ledger.Sale, forms.Errors, error) {
	f, touched := s.form(id)

	var saved ledger.Sale
	errs, err := submit(ctx, f, touched, values, func(ctx context.Context, f *forms.SaleForm) error {
		in := f.Input()
		resp, err := s.api.SaveSale(ctx, id, in)
		if err != nil {
			return failed("save sale", err)
		}
		if _, err := s.customers.Options(ctx); err != nil {
			s.logger.Warn("customer names unavailable", zap.Error(err))
		}

		saved = saleFromInput(in, s.customers.Name(in.CustomerID))
		saved.CreatedAt = resp.CreatedAt
		saved.UpdatedAt = resp.UpdatedAt
		if id == "" {
			saved.SaleID = resp.SaleID
			s.store.Sales.Prepend(saved)
			s.logger.Info("sale created", zap.String("sale_id", saved.SaleID))
			return nil
		}
		saved.SaleID = id
		s.store.Sales.Update(
			func(x ledger.Sale) bool { return x.SaleID == id },
			func(ledger.Sale) ledger.Sale { return saved },
		)
		s.logger.Info("sale updated", zap.String("sale_id", id))
		return nil
	})
	return saved, errs, err
}

// Delete removes sale id.
func (s *Sales) Delete(ctx context.Context, id string) (string, error) {
	if _, err := s.api.DeleteSale(ctx, id); err != nil {
		return "", failed("delete sale", err)
	}
	s.store.Sales.Remove(func(x ledger.Sale) bool { return x.SaleID == id })
	s.logger.Info("sale deleted", zap.String("sale_id", id))
	return MsgSaleDeleted, nil
}

func saleFromInput(in ledger.SaleInput, customerName string) ledger.Sale {
	return ledger.Sale{
		CustomerID:      in.CustomerID,
		CustomerName:    customerName,
		Date:            in.Date,
		Quantity:        in.Quantity,
		Rate:            in.Rate,
		VehicleRent:     in.VehicleRent,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		PaymentReceived: in.PaymentReceived,
		Remarks:         in.Remarks,
	}
}
