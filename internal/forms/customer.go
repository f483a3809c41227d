package forms

import (
	"fmt"

	"sales_dashboard/internal/format"
	"sales_dashboard/internal/ledger"
)

var customerMessages = map[string]string{
	"CustomerName": "Customer name cannot be empty",
}

var customerFields = []string{"CustomerName"}

// CustomerForm is the customer dialog.
type CustomerForm struct {
	CustomerName string `validate:"notblank"`

	rules *Rules
}

// NewCustomerForm returns a blank customer dialog.
func NewCustomerForm(rules *Rules) *CustomerForm {
	return &CustomerForm{rules: rules}
}

// Fields implements Form.
func (f *CustomerForm) Fields() []string { return customerFields }

// Set implements Form.
func (f *CustomerForm) Set(field, value string) error {
	if field != "CustomerName" {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	f.CustomerName = value
	return nil
}

// Validate implements Form.
func (f *CustomerForm) Validate(bool) Errors {
	return f.rules.check(*f, customerMessages)
}

// Input returns the payload with the name title-cased.
func (f *CustomerForm) Input() ledger.CustomerInput {
	return ledger.CustomerInput{CustomerName: format.CapitalizeName(f.CustomerName)}
}
