package ledger

// Customer is a customer record as served by the bookkeeping API.
type Customer struct {
	CustomerID   string `json:"CustomerID"`
	CustomerName string `json:"CustomerName"`
	CreatedAt    string `json:"CreatedAt"`
	UpdatedAt    string `json:"UpdatedAt,omitempty"`
}

// Sale is a single sale to a customer. Amount is quantity * rate + vehicle rent.
type Sale struct {
	SaleID          string  `json:"SaleID"`
	CustomerID      string  `json:"CustomerID"`
	CustomerName    string  `json:"CustomerName"`
	Date            string  `json:"Date"`
	Quantity        int     `json:"Quantity"`
	Rate            float64 `json:"Rate"`
	VehicleRent     *int    `json:"VehicleRent"`
	Amount          float64 `json:"Amount"`
	PaymentMethod   *string `json:"PaymentMethod"`
	PaymentReceived *int    `json:"PaymentReceived"`
	Remarks         *string `json:"Remarks"`
	CreatedAt       string  `json:"CreatedAt"`
	UpdatedAt       string  `json:"UpdatedAt,omitempty"`
}

// Payment is money received from a customer outside of a sale.
type Payment struct {
	PaymentID       string  `json:"PaymentID"`
	CustomerID      string  `json:"CustomerID"`
	CustomerName    string  `json:"CustomerName"`
	Date            string  `json:"Date"`
	PaymentReceived int     `json:"PaymentReceived"`
	PaymentMethod   string  `json:"PaymentMethod"`
	Remarks         *string `json:"Remarks"`
	CreatedAt       string  `json:"CreatedAt"`
	UpdatedAt       string  `json:"UpdatedAt,omitempty"`
}

// Transaction types.
const (
	TransactionSale    = "Sale"
	TransactionPayment = "Payment"
)

// Transaction is the read-only merge of sales and payments computed by the API.
type Transaction struct {
	TransactionID   string   `json:"TransactionID"`
	Type            string   `json:"Type"`
	Date            string   `json:"Date"`
	CustomerName    string   `json:"CustomerName"`
	Quantity        *int     `json:"Quantity,omitempty"`
	Rate            *float64 `json:"Rate,omitempty"`
	VehicleRent     *int     `json:"VehicleRent,omitempty"`
	Amount          *float64 `json:"Amount,omitempty"`
	PaymentMethod   *string  `json:"PaymentMethod,omitempty"`
	PaymentReceived *int     `json:"PaymentReceived,omitempty"`
	Remarks         *string  `json:"Remarks,omitempty"`
}

// Balance is the per-customer aggregate recomputed by the API.
type Balance struct {
	CustomerID     string  `json:"CustomerID"`
	CustomerName   string  `json:"CustomerName"`
	TotalSales     float64 `json:"TotalSales"`
	TotalPayments  float64 `json:"TotalPayments"`
	PendingBalance float64 `json:"PendingBalance"`
}

// Log is one entry of the API activity log.
type Log struct {
	LogID     string `json:"LogID"`
	Timestamp string `json:"Timestamp"`
	Action    string `json:"Action"`
	RecordID  string `json:"RecordID,omitempty"`
	Details   string `json:"Details,omitempty"`
}

// Backup is a database backup file known to the API.
type Backup struct {
	File      string `json:"file"`
	CreatedAt string `json:"createdAt"`
}

// CustomerInput is the body of customer create and update calls.
type CustomerInput struct {
	CustomerName string `json:"CustomerName"`
}

// SaleInput is the body of sale create and update calls.
type SaleInput struct {
	Date            string  `json:"Date"`
	CustomerID      string  `json:"CustomerID"`
	Quantity        int     `json:"Quantity"`
	Rate            float64 `json:"Rate"`
	VehicleRent     *int    `json:"VehicleRent"`
	Amount          float64 `json:"Amount"`
	PaymentMethod   *string `json:"PaymentMethod"`
	PaymentReceived *int    `json:"PaymentReceived"`
	Remarks         *string `json:"Remarks"`
}

// PaymentInput is the body of payment create and update calls.
type PaymentInput struct {
	Date            string  `json:"Date"`
	CustomerID      string  `json:"CustomerID"`
	PaymentReceived int     `json:"PaymentReceived"`
	PaymentMethod   string  `json:"PaymentMethod"`
	Remarks         *string `json:"Remarks"`
}
