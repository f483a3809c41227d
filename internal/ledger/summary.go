package ledger

import (
	"math"
	"sort"
)

const (
	topCustomersLimit = 5
	recentLogsLimit   = 5
)

// Summary holds the headline figures of the dashboard overview.
type Summary struct {
	CustomerCount    int       `json:"customer_count"`
	TotalSales       float64   `json:"total_sales"`
	TotalPayments    float64   `json:"total_payments"`
	NegativeBalances []Balance `json:"negative_balances"`
	TopCustomers     []Balance `json:"top_customers"`
	RecentLogs       []Log     `json:"recent_logs"`
}

// Summarize computes the overview figures from whatever has been fetched. Totals come from
// balances when any are loaded and fall back to summing the loaded sales and payments.
func Summarize(customers []Customer, sales []Sale, payments []Payment, balances []Balance, logs []Log) Summary {
	sum := Summary{
		CustomerCount:    len(customers),
		NegativeBalances: []Balance{},
		TopCustomers:     []Balance{},
		RecentLogs:       []Log{},
	}

	if len(balances) > 0 {
		for _, b := range balances {
			sum.TotalSales += b.TotalSales
			sum.TotalPayments += b.TotalPayments
		}
	} else {
		for _, s := range sales {
			sum.TotalSales += s.Amount
		}
		for _, p := range payments {
			sum.TotalPayments += float64(p.PaymentReceived)
		}
	}

	for _, b := range balances {
		if b.PendingBalance < 0 {
			sum.NegativeBalances = append(sum.NegativeBalances, b)
		}
	}

	top := make([]Balance, len(balances))
	copy(top, balances)
	sort.SliceStable(top, func(i, j int) bool {
		return math.Abs(top[i].PendingBalance) > math.Abs(top[j].PendingBalance)
	})
	if len(top) > topCustomersLimit {
		top = top[:topCustomersLimit]
	}
	sum.TopCustomers = append(sum.TopCustomers, top...)

	if len(logs) > recentLogsLimit {
		logs = logs[:recentLogsLimit]
	}
	sum.RecentLogs = append(sum.RecentLogs, logs...)

	return sum
}
