package ledger

// Eligibility messages, in precedence order.
const (
	MsgHasSalesAndPayments = "Cannot delete customer with associated sales and payments."
	MsgHasSales            = "Cannot delete customer with associated sales."
	MsgHasPayments         = "Cannot delete customer with associated payments."
	MsgCanDelete           = "Customer can be deleted."
)

// Eligibility is the outcome of a customer deletion check.
type Eligibility struct {
	CanDelete bool   `json:"can_delete"`
	Message   string `json:"message"`
}

// CanDeleteCustomer refuses deletion while any sale or payment references the customer.
// The answer is only as complete as the sales and payments passed in.
func CanDeleteCustomer(customerID string, sales []Sale, payments []Payment) Eligibility {
	hasSales := false
	for _, s := range sales {
		if s.CustomerID == customerID {
			hasSales = true
			break
		}
	}
	hasPayments := false
	for _, p := range payments {
		if p.CustomerID == customerID {
			hasPayments = true
			break
		}
	}

	switch {
	case hasSales && hasPayments:
		return Eligibility{Message: MsgHasSalesAndPayments}
	case hasSales:
		return Eligibility{Message: MsgHasSales}
	case hasPayments:
		return Eligibility{Message: MsgHasPayments}
	}
	return Eligibility{CanDelete: true, Message: MsgCanDelete}
}
