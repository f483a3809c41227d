package ledger

// Payment methods accepted by the API.
const (
	MethodBankTransfer = "Bank Transfer"
	MethodCash         = "Cash"
	MethodCheque       = "Cheque"
	MethodUPI          = "UPI"
	MethodOthers       = "Others"

	// MethodPlaceholder is what an untouched method selector holds. It is never a real choice.
	MethodPlaceholder = "Select Payment Method"
)

// PaymentMethods lists the concrete methods in display order.
var PaymentMethods = []string{MethodBankTransfer, MethodCash, MethodCheque, MethodUPI, MethodOthers}

// IsPaymentMethod reports whether m is one of the concrete payment methods.
func IsPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}
