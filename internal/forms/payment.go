package forms

import (
	"fmt"
	"strconv"
	"strings"

	"sales_dashboard/internal/ledger"
)

var paymentMessages = map[string]string{
	"CustomerID":        "Please select a customer",
	"Date.required":     "Please select a date",
	"Date.calendardate": "Invalid date format",
	"Date.pastdate":     "Future dates are not allowed",
	"PaymentMethod":     "Please select a valid payment method",
	"PaymentReceived":   "Please enter a valid integer payment amount greater than 0",
}

var paymentFields = []string{"CustomerID", "Date", "PaymentMethod", "PaymentReceived", "Remarks"}

// PaymentForm is the payment dialog.
type PaymentForm struct {
	CustomerID      string `validate:"required"`
	Date            string `validate:"required,calendardate,pastdate"`
	PaymentMethod   string `validate:"paymethod"`
	PaymentReceived string `validate:"required,posint"`
	Remarks         string

	rules *Rules
}

// NewPaymentForm returns a blank payment dialog dated today.
func NewPaymentForm(rules *Rules) *PaymentForm {
	return &PaymentForm{
		Date:          rules.now().Format(DateLayout),
		PaymentMethod: ledger.MethodPlaceholder,
		rules:         rules,
	}
}

// EditPaymentForm fills the dialog from an existing payment; every field starts touched.
func EditPaymentForm(rules *Rules, p ledger.Payment) (*PaymentForm, []string) {
	f := NewPaymentForm(rules)
	f.CustomerID = p.CustomerID
	if d, _, _ := strings.Cut(p.Date, "T"); d != "" {
		f.Date = d
	}
	if p.PaymentMethod != "" {
		f.PaymentMethod = p.PaymentMethod
	}
	f.PaymentReceived = strconv.Itoa(p.PaymentReceived)
	if p.Remarks != nil {
		f.Remarks = *p.Remarks
	}
	return f, []string{"CustomerID", "Date", "PaymentMethod", "PaymentReceived"}
}

// Fields implements Form.
func (f *PaymentForm) Fields() []string { return paymentFields }

// Set implements Form.
func (f *PaymentForm) Set(field, value string) error {
	switch field {
	case "CustomerID":
		f.CustomerID = value
	case "Date":
		f.Date = value
	case "PaymentMethod":
		f.PaymentMethod = value
	case "PaymentReceived":
		f.PaymentReceived = value
	case "Remarks":
		f.Remarks = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Validate implements Form. While typing, a blank amount is not reported yet.
func (f *PaymentForm) Validate(live bool) Errors {
	errs := f.rules.check(*f, paymentMessages)
	if live && strings.TrimSpace(f.PaymentReceived) == "" {
		delete(errs, "PaymentReceived")
	}
	return errs
}

// Input converts a validated form into the API payload.
func (f *PaymentForm) Input() ledger.PaymentInput {
	amount, _ := parseInt(f.PaymentReceived)
	in := ledger.PaymentInput{
		Date:            f.Date,
		CustomerID:      f.CustomerID,
		PaymentReceived: amount,
		PaymentMethod:   f.PaymentMethod,
	}
	if r := strings.TrimSpace(f.Remarks); r != "" {
		in.Remarks = &r
	}
	return in
}
