package forms

import (
	"fmt"
	"strconv"
	"strings"

	"sales_dashboard/internal/ledger"
)

var saleMessages = map[string]string{
	"CustomerID":        "Please select a customer",
	"Date.required":     "Please select a date",
	"Date.calendardate": "Invalid date format",
	"Date.pastdate":     "Future dates are not allowed",
	"Quantity":          "Please enter a valid integer quantity greater than 0",
	"Rate":              "Please enter a valid rate greater than 0",
	"VehicleRent":       "Please enter a valid integer vehicle rent (0 or greater)",
	"PaymentReceived":   "Please enter a valid integer payment received (0 or greater)",
	"PaymentMethod":     "Please select a valid payment method when payment is received",
}

var saleFields = []string{"CustomerID", "Date", "Quantity", "Rate", "VehicleRent", "PaymentMethod", "PaymentReceived", "Remarks"}

// SaleForm is the sale dialog. All values are kept as typed.
type SaleForm struct {
	CustomerID      string `validate:"required"`
	Date            string `validate:"required,calendardate,pastdate"`
	Quantity        string `validate:"required,posint"`
	Rate            string `validate:"required,posnum"`
	VehicleRent     string `validate:"omitempty,nonnegint"`
	PaymentMethod   string
	PaymentReceived string `validate:"omitempty,nonnegint"`
	Remarks         string

	rules *Rules
}

// NewSaleForm returns a blank sale dialog dated today.
func NewSaleForm(rules *Rules) *SaleForm {
	return &SaleForm{
		Date:          rules.now().Format(DateLayout),
		PaymentMethod: ledger.MethodPlaceholder,
		rules:         rules,
	}
}

// EditSaleForm fills the dialog from an existing sale and returns the fields an edit dialog
// starts with marked as touched. Optional fields count as touched only when non-zero.
func EditSaleForm(rules *Rules, s ledger.Sale) (*SaleForm, []string) {
	f := NewSaleForm(rules)
	f.CustomerID = s.CustomerID
	if d, _, _ := strings.Cut(s.Date, "T"); d != "" {
		f.Date = d
	}
	f.Quantity = strconv.Itoa(s.Quantity)
	f.Rate = strconv.FormatFloat(s.Rate, 'f', -1, 64)
	touched := []string{"CustomerID", "Date", "Quantity", "Rate"}
	if s.VehicleRent != nil {
		f.VehicleRent = strconv.Itoa(*s.VehicleRent)
		if *s.VehicleRent != 0 {
			touched = append(touched, "VehicleRent")
		}
	}
	if s.PaymentMethod != nil && *s.PaymentMethod != "" {
		f.PaymentMethod = *s.PaymentMethod
		touched = append(touched, "PaymentMethod")
	}
	if s.PaymentReceived != nil {
		f.PaymentReceived = strconv.Itoa(*s.PaymentReceived)
		if *s.PaymentReceived != 0 {
			touched = append(touched, "PaymentReceived")
		}
	}
	if s.Remarks != nil {
		f.Remarks = *s.Remarks
	}
	return f, touched
}

// Fields implements Form.
func (f *SaleForm) Fields() []string { return saleFields }

// Set implements Form.
func (f *SaleForm) Set(field, value string) error {
	switch field {
	case "CustomerID":
		f.CustomerID = value
	case "Date":
		f.Date = value
	case "Quantity":
		f.Quantity = value
	case "Rate":
		f.Rate = value
	case "VehicleRent":
		f.VehicleRent = value
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

// Validate implements Form. While typing, a blank quantity or rate is not reported yet.
func (f *SaleForm) Validate(live bool) Errors {
	errs := f.rules.check(*f, saleMessages)
	if live {
		if strings.TrimSpace(f.Quantity) == "" {
			delete(errs, "Quantity")
		}
		if strings.TrimSpace(f.Rate) == "" {
			delete(errs, "Rate")
		}
	}
	return errs
}

// Amount is the derived, read-only sale amount: 0 until quantity and rate are both valid.
func (f *SaleForm) Amount() float64 {
	qty, ok := parseInt(f.Quantity)
	if !ok || qty <= 0 {
		return 0
	}
	rate, ok := parseNumber(f.Rate)
	if !ok || rate <= 0 {
		return 0
	}
	var rent *int
	if r, ok := parseInt(f.VehicleRent); ok && r >= 0 {
		rent = &r
	}
	return ledger.SaleAmount(qty, rate, rent)
}

// Input converts a validated form into the API payload.
func (f *SaleForm) Input() ledger.SaleInput {
	qty, _ := parseInt(f.Quantity)
	rate, _ := parseNumber(f.Rate)
	in := ledger.SaleInput{
		Date:       f.Date,
		CustomerID: f.CustomerID,
		Quantity:   qty,
		Rate:       rate,
		Amount:     f.Amount(),
	}
	if v, ok := parseInt(f.VehicleRent); ok {
		in.VehicleRent = &v
	}
	if ledger.IsPaymentMethod(f.PaymentMethod) {
		m := f.PaymentMethod
		in.PaymentMethod = &m
	}
	if v, ok := parseInt(f.PaymentReceived); ok {
		in.PaymentReceived = &v
	}
	if r := strings.TrimSpace(f.Remarks); r != "" {
		in.Remarks = &r
	}
	return in
}
