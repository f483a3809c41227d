package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/format"
	"sales_dashboard/internal/ledger"
)

// MsgInvalidBalances replaces the fetch failure when the balances body is not a list.
const MsgInvalidBalances = "Received invalid balances data from server"

const recentLogs = 5

// Point is one bar of an overview chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Overview is the landing page: headline figures, the two charts and any fetch failures.
type Overview struct {
	ledger.Summary
	SalesSeries    []Point  `json:"sales_series"`
	PaymentsSeries []Point  `json:"payments_series"`
	Errors         []string `json:"errors"`
}

// Overview refreshes customers and the first page of every paginated list concurrently.
// A failed fetch empties its own list and is reported; the others still land.
func (d *Dashboard) Overview(ctx context.Context) Overview {
	var (
		mu   sync.Mutex
		errs = []string{}
		logs []ledger.Log
	)
	report := func(err error) error {
		if err != nil {
			mu.Lock()
			errs = append(errs, err.Error())
			mu.Unlock()
		}
		return nil
	}

	var g errgroup.Group
	g.Go(func() error { return report(d.Customers.Load(ctx)) })
	g.Go(func() error { return report(d.Sales.pager.Load(ctx, 1)) })
	g.Go(func() error { return report(d.Payments.pager.Load(ctx, 1)) })
	g.Go(func() error { return report(d.Transactions.Load(ctx, 1)) })
	g.Go(func() error {
		err := d.Balances.Load(ctx, 1)
		if errors.Is(err, apiclient.ErrMalformedResponse) {
			err = errors.New(MsgInvalidBalances)
		}
		return report(err)
	})
	g.Go(func() error {
		page, err := d.api.ListLogs(ctx, recentLogs, 0)
		if err != nil {
			return report(failed("fetch logs", err))
		}
		logs = page.Items
		return nil
	})
	_ = g.Wait()
	sort.Strings(errs)

	sales := d.store.Sales.Items()
	payments := d.store.Payments.Items()
	out := Overview{
		Summary: ledger.Summarize(
			d.store.Customers.Items(),
			sales,
			payments,
			d.store.Balances.Items(),
			logs,
		),
		SalesSeries:    make([]Point, 0, len(sales)),
		PaymentsSeries: make([]Point, 0, len(payments)),
		Errors:         errs,
	}
	for _, s := range sales {
		out.SalesSeries = append(out.SalesSeries, Point{Label: format.Date(s.Date), Value: s.Amount})
	}
	for _, p := range payments {
		out.PaymentsSeries = append(out.PaymentsSeries, Point{Label: format.Date(p.Date), Value: float64(p.PaymentReceived)})
	}
	return out
}
