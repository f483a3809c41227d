package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sales_dashboard/internal/export"
	"sales_dashboard/internal/format"
	"sales_dashboard/internal/ledger"
)

// Exportable lists the entities with an export.
var Exportable = []string{"customers", "sales", "payments", "transactions", "balances", "logs"}

// Export builds the table for entity from the rows q selects, across every page the store
// holds. PDF cells spell the currency as "INR" since the PDF core fonts have no rupee glyph.
func (d *Dashboard) Export(ctx context.Context, entity, outFormat string, q Query) (export.Table, error) {
	var money func(float64) string
	switch outFormat {
	case export.FormatPDF:
		money = format.INRPlain
	case export.FormatExcel:
		money = format.INR
	default:
		return export.Table{}, fmt.Errorf("%w: %q", export.ErrUnknownFormat, outFormat)
	}

	switch entity {
	case "customers":
		rows, err := d.Customers.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return customersTable(rows), nil
	case "sales":
		rows, err := d.Sales.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return salesTable(rows, money), nil
	case "payments":
		rows, err := d.Payments.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return paymentsTable(rows, money), nil
	case "transactions":
		rows, err := d.Transactions.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return transactionsTable(rows, money), nil
	case "balances":
		rows, err := d.Balances.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return balancesTable(rows, money), nil
	case "logs":
		rows, err := d.Logs.Rows(ctx, q)
		if err != nil {
			return export.Table{}, err
		}
		return logsTable(rows), nil
	}
	return export.Table{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

func customersTable(rows []ledger.Customer) export.Table {
	t := export.Table{
		Title:   "Customers Report",
		Sheet:   "Customers",
		Headers: []string{"Customer ID", "Customer Name", "Created"},
	}
	for _, c := range rows {
		t.Rows = append(t.Rows, []string{c.CustomerID, orDash(c.CustomerName), format.DateTime(c.CreatedAt)})
	}
	return t
}

func salesTable(rows []ledger.Sale, money func(float64) string) export.Table {
	t := export.Table{
		Title:   "Sales Report",
		Sheet:   "Sales",
		Headers: []string{"Sale ID", "Date", "Customer", "Quantity", "Rate", "Vehicle Rent", "Amount", "Payment Method", "Payment Received", "Remarks"},
	}
	for _, s := range rows {
		t.Rows = append(t.Rows, []string{
			s.SaleID,
			format.Date(s.Date),
			orDash(s.CustomerName),
			count(s.Quantity),
			nonZero(s.Rate, money),
			nonZeroInt(s.VehicleRent, money),
			nonZero(s.Amount, money),
			textOf(s.PaymentMethod),
			nonZeroInt(s.PaymentReceived, money),
			textOf(s.Remarks),
		})
	}
	return t
}

func paymentsTable(rows []ledger.Payment, money func(float64) string) export.Table {
	t := export.Table{
		Title:   "Payments Report",
		Sheet:   "Payments",
		Headers: []string{"Payment ID", "Date", "Customer", "Payment Method", "Payment Received", "Remarks"},
	}
	for _, p := range rows {
		t.Rows = append(t.Rows, []string{
			p.PaymentID,
			format.Date(p.Date),
			orDash(p.CustomerName),
			orDash(p.PaymentMethod),
			nonZero(float64(p.PaymentReceived), money),
			textOf(p.Remarks),
		})
	}
	return t
}

func transactionsTable(rows []ledger.Transaction, money func(float64) string) export.Table {
	t := export.Table{
		Title:   "Transactions Report",
		Sheet:   "Transactions",
		Headers: []string{"Transaction ID", "Type", "Date", "Customer", "Quantity", "Rate", "Vehicle Rent", "Amount", "Payment Method", "Payment Received", "Remarks"},
	}
	for _, tx := range rows {
		quantity := format.Placeholder
		if tx.Quantity != nil {
			quantity = count(*tx.Quantity)
		}
		t.Rows = append(t.Rows, []string{
			orDash(tx.TransactionID),
			transactionType(tx),
			format.Date(tx.Date),
			orDash(tx.CustomerName),
			quantity,
			nonZeroOf(tx.Rate, money),
			nonZeroInt(tx.VehicleRent, money),
			nonZeroOf(tx.Amount, money),
			textOf(tx.PaymentMethod),
			nonZeroInt(tx.PaymentReceived, money),
			textOf(tx.Remarks),
		})
	}
	return t
}

func balancesTable(rows []ledger.Balance, money func(float64) string) export.Table {
	t := export.Table{
		Title:   "Balances Report",
		Sheet:   "Balances",
		Headers: []string{"Customer", "Total Sales", "Total Payments", "Pending Balance"},
	}
	zeroOr := func(v float64) string {
		if v == 0 {
			return "0"
		}
		return money(v)
	}
	for _, b := range rows {
		t.Rows = append(t.Rows, []string{
			orDash(b.CustomerName),
			zeroOr(b.TotalSales),
			zeroOr(b.TotalPayments),
			zeroOr(b.PendingBalance),
		})
	}
	return t
}

func logsTable(rows []ledger.Log) export.Table {
	t := export.Table{
		Title:   "Activity Log",
		Sheet:   "Logs",
		Headers: []string{"Timestamp", "Action", "Record ID", "Details"},
	}
	for _, l := range rows {
		t.Rows = append(t.Rows, []string{format.DateTime(l.Timestamp), orDash(l.Action), orDash(l.RecordID), orDash(l.Details)})
	}
	return t
}

// transactionType falls back to the id prefix for rows the API sent without a type.
func transactionType(tx ledger.Transaction) string {
	switch {
	case tx.Type != "":
		return tx.Type
	case strings.HasPrefix(tx.TransactionID, "SALE"):
		return ledger.TransactionSale
	case strings.HasPrefix(tx.TransactionID, "PAY"):
		return ledger.TransactionPayment
	}
	return format.Placeholder
}

func orDash(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}

func textOf(s *string) string {
	if s == nil {
		return format.Placeholder
	}
	return orDash(*s)
}

func count(n int) string {
	if n == 0 {
		return format.Placeholder
	}
	return strconv.Itoa(n)
}

func nonZero(v float64, money func(float64) string) string {
	if v == 0 {
		return format.Placeholder
	}
	return money(v)
}

func nonZeroOf(v *float64, money func(float64) string) string {
	if v == nil {
		return format.Placeholder
	}
	return nonZero(*v, money)
}

func nonZeroInt(v *int, money func(float64) string) string {
	if v == nil {
		return format.Placeholder
	}
	return nonZero(float64(*v), money)
}
