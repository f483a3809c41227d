package apiclient

import (
	"context"
	"net/http"

	"sales_dashboard/internal/ledger"
)

// ListCustomers fetches every customer. The endpoint is not paginated.
func (c *Client) ListCustomers(ctx context.Context) (Page[ledger.Customer], error) {
	return list[ledger.Customer](ctx, c, ResourceCustomers, "/api/customers", 0, 0)
}

// CreateCustomer creates a customer and returns the API's record of it.
func (c *Client) CreateCustomer(ctx context.Context, in ledger.CustomerInput) (ledger.Customer, error) {
	var out ledger.Customer
	err := c.call(ctx, ResourceCustomers, http.MethodPost, "/api/customers", withBody(in), &out)
	return out, err
}

// UpdateCustomer renames the customer with the given id.
func (c *Client) UpdateCustomer(ctx context.Context, id string, in ledger.CustomerInput) (ledger.Customer, error) {
	var out ledger.Customer
	err := c.call(ctx, ResourceCustomers, http.MethodPut, "/api/customers/{id}", withIDAndBody(id, in), &out)
	return out, err
}

// DeleteCustomer deletes the customer and returns the API's status message.
func (c *Client) DeleteCustomer(ctx context.Context, id string) (string, error) {
	var out statusMessage
	err := c.call(ctx, ResourceCustomers, http.MethodDelete, "/api/customers/{id}", withID(id), &out)
	return out.Message, err
}

// ListSales fetches one page of sales.
func (c *Client) ListSales(ctx context.Context, limit, offset int) (Page[ledger.Sale], error) {
	return list[ledger.Sale](ctx, c, ResourceSales, "/api/sales", limit, offset)
}

// SaveSale creates a sale when id is empty and updates it otherwise.
func (c *Client) SaveSale(ctx context.Context, id string, in ledger.SaleInput) (ledger.Sale, error) {
	var out ledger.Sale
	var err error
	if id == "" {
		err = c.call(ctx, ResourceSales, http.MethodPost, "/api/sales", withBody(in), &out)
	} else {
		err = c.call(ctx, ResourceSales, http.MethodPut, "/api/sales/{id}", withIDAndBody(id, in), &out)
	}
	return out, err
}

// DeleteSale deletes one sale.
func (c *Client) DeleteSale(ctx context.Context, id string) (string, error) {
	var out statusMessage
	err := c.call(ctx, ResourceSales, http.MethodDelete, "/api/sales/{id}", withID(id), &out)
	return out.Message, err
}

// ListPayments fetches one page of payments.
func (c *Client) ListPayments(ctx context.Context, limit, offset int) (Page[ledger.Payment], error) {
	return list[ledger.Payment](ctx, c, ResourcePayments, "/api/payments", limit, offset)
}

// SavePayment creates a payment when id is empty and updates it otherwise.
func (c *Client) SavePayment(ctx context.Context, id string, in ledger.PaymentInput) (ledger.Payment, error) {
	var out ledger.Payment
	var err error
	if id == "" {
		err = c.call(ctx, ResourcePayments, http.MethodPost, "/api/payments", withBody(in), &out)
	} else {
		err = c.call(ctx, ResourcePayments, http.MethodPut, "/api/payments/{id}", withIDAndBody(id, in), &out)
	}
	return out, err
}

// DeletePayment deletes one payment.
func (c *Client) DeletePayment(ctx context.Context, id string) (string, error) {
	var out statusMessage
	err := c.call(ctx, ResourcePayments, http.MethodDelete, "/api/payments/{id}", withID(id), &out)
	return out.Message, err
}

// ListTransactions fetches one page of the merged sales/payments history.
func (c *Client) ListTransactions(ctx context.Context, limit, offset int) (Page[ledger.Transaction], error) {
	return list[ledger.Transaction](ctx, c, ResourceTransactions, "/api/transactions", limit, offset)
}

// ListBalances fetches one page of customer balances.
func (c *Client) ListBalances(ctx context.Context, limit, offset int) (Page[ledger.Balance], error) {
	return list[ledger.Balance](ctx, c, ResourceBalances, "/api/balances", limit, offset)
}

// ListLogs fetches one page of the activity log.
func (c *Client) ListLogs(ctx context.Context, limit, offset int) (Page[ledger.Log], error) {
	return list[ledger.Log](ctx, c, ResourceLogs, "/api/logs", limit, offset)
}

// ClearLogs deletes the whole activity log.
func (c *Client) ClearLogs(ctx context.Context) (string, error) {
	var out statusMessage
	err := c.call(ctx, ResourceLogs, http.MethodDelete, "/api/logs", nil, &out)
	return out.Message, err
}

// ListBackups lists the backup files known to the API.
func (c *Client) ListBackups(ctx context.Context) ([]ledger.Backup, error) {
	page, err := list[ledger.Backup](ctx, c, ResourceBackups, "/api/backups", 0, 0)
	return page.Items, err
}

// CreateBackup asks the API for a new backup and returns its file name.
func (c *Client) CreateBackup(ctx context.Context) (string, error) {
	var out struct {
		File string `json:"file"`
	}
	err := c.call(ctx, ResourceBackups, http.MethodPost, "/api/backup", nil, &out)
	return out.File, err
}

// CleanupBackups removes old backups and returns the deleted file names.
func (c *Client) CleanupBackups(ctx context.Context) ([]string, error) {
	var out struct {
		Deleted []string `json:"deleted"`
	}
	err := c.call(ctx, ResourceBackups, http.MethodPost, "/api/backup/cleanup", nil, &out)
	if out.Deleted == nil {
		out.Deleted = []string{}
	}
	return out.Deleted, err
}

// ResetDatabase wipes the API's database.
func (c *Client) ResetDatabase(ctx context.Context) (string, error) {
	var out statusMessage
	err := c.call(ctx, ResourceBackups, http.MethodPost, "/api/reset", nil, &out)
	return out.Message, err
}
