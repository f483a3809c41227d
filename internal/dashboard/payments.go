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

// MsgPaymentDeleted is shown after a payment is deleted.
const MsgPaymentDeleted = "Payment deleted successfully"

// Payments is the payments view.
type Payments struct {
	*pager[ledger.Payment]

	api       API
	store     *store.Store
	rules     *forms.Rules
	customers *Customers
	logger    *zap.Logger
}

func newPayments(api API, st *store.Store, rules *forms.Rules, logger *zap.Logger) *Payments {
	cfg := listview.Config[ledger.Payment]{
		PageSize: 10,
		Remote:   true,
		Columns: map[string]listview.Accessor[ledger.Payment]{
			"PaymentID":       func(p ledger.Payment) any { return p.PaymentID },
			"Date":            func(p ledger.Payment) any { return p.Date },
			"CustomerName":    func(p ledger.Payment) any { return p.CustomerName },
			"PaymentMethod":   func(p ledger.Payment) any { return p.PaymentMethod },
			"PaymentReceived": func(p ledger.Payment) any { return p.PaymentReceived },
			"Remarks":         func(p ledger.Payment) any { return p.Remarks },
		},
		Filter:    listview.Contains(func(p ledger.Payment) string { return p.CustomerName }),
		SortField: "Date",
		Direction: listview.Desc,
	}
	return &Payments{
		pager:  newPager("payments", &st.Payments, cfg, api.ListPayments, logger),
		api:    api,
		store:  st,
		rules:  rules,
		logger: logger,
	}
}

// Load fetches one page of payments together with the customer list.
func (p *Payments) Load(ctx context.Context, page int) error {
	var g errgroup.Group
	g.Go(func() error { return p.pager.Load(ctx, page) })
	g.Go(func() error { return p.customers.Load(ctx) })
	return g.Wait()
}

func (p *Payments) form(id string) (*forms.PaymentForm, []string) {
	if id != "" {
		for _, existing := range p.store.Payments.Items() {
			if existing.PaymentID == id {
				return forms.EditPaymentForm(p.rules, existing)
			}
		}
	}
	return forms.NewPaymentForm(p.rules), nil
}

// Check validates the payment dialog as typed.
func (p *Payments) Check(id string, values map[string]string) (forms.Errors, error) {
	f, touched := p.form(id)
	return check(f, touched, values)
}

// Save creates a payment when id is empty and edits payment id otherwise.
func (p *Payments) Save(ctx context.Context, id string, values map[string]string) (ledger.Payment, forms.Errors, error) {
	f, touched := p.form(id)

	var saved ledger.Payment
	errs, err := submit(ctx, f, touched, values, func(ctx context.Context, f *forms.PaymentForm) error {
		in := f.Input()
		resp, err := p.api.SavePayment(ctx, id, in)
		if err != nil {
			return failed("save payment", err)
		}
		if _, err := p.customers.Options(ctx); err != nil {
			p.logger.Warn("customer names unavailable", zap.Error(err))
		}

		saved = ledger.Payment{
			CustomerID:      in.CustomerID,
			CustomerName:    p.customers.Name(in.CustomerID),
			Date:            in.Date,
			PaymentReceived: in.PaymentReceived,
			PaymentMethod:   in.PaymentMethod,
			Remarks:         in.Remarks,
			CreatedAt:       resp.CreatedAt,
			UpdatedAt:       resp.UpdatedAt,
		}
		if id == "" {
			saved.PaymentID = resp.PaymentID
			p.store.Payments.Prepend(saved)
			p.logger.Info("payment created", zap.String("payment_id", saved.PaymentID))
			return nil
		}
		saved.PaymentID = id
		p.store.Payments.Update(
			func(x ledger.Payment) bool { return x.PaymentID == id },
			func(ledger.Payment) ledger.Payment { return saved },
		)
		p.logger.Info("payment updated", zap.String("payment_id", id))
		return nil
	})
	return saved, errs, err
}

// Delete removes payment id.
func (p *Payments) Delete(ctx context.Context, id string) (string, error) {
	if _, err := p.api.DeletePayment(ctx, id); err != nil {
		return "", failed("delete payment", err)
	}
	p.store.Payments.Remove(func(x ledger.Payment) bool { return x.PaymentID == id })
	p.logger.Info("payment deleted", zap.String("payment_id", id))
	return MsgPaymentDeleted, nil
}
