package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales_dashboard/internal/ledger"
)

func fixedRules() *Rules {
	return NewRules(func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) })
}

func TestCustomerForm(t *testing.T) {
	f := NewCustomerForm(fixedRules())

	assert.Equal(t, Errors{"CustomerName": "Customer name cannot be empty"}, f.Validate(false))

	require.NoError(t, f.Set("CustomerName", "   "))
	assert.Contains(t, f.Validate(true), "CustomerName")

	require.NoError(t, f.Set("CustomerName", "acme traders"))
	assert.Empty(t, f.Validate(false))
	assert.Equal(t, "Acme Traders", f.Input().CustomerName)

	assert.ErrorIs(t, f.Set("Nope", "x"), ErrUnknownField)
}

func TestSaleForm_Submit(t *testing.T) {
	f := NewSaleForm(fixedRules())
	assert.Equal(t, "2026-10-15", f.Date)
	assert.Equal(t, ledger.MethodPlaceholder, f.PaymentMethod)

	errs := f.Validate(false)
	assert.Equal(t, "Please select a customer", errs["CustomerID"])
	assert.Equal(t, "Please enter a valid integer quantity greater than 0", errs["Quantity"])
	assert.Equal(t, "Please enter a valid rate greater than 0", errs["Rate"])
	assert.NotContains(t, errs, "Date")
	assert.NotContains(t, errs, "PaymentMethod")
}

func TestSaleForm_Dates(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-10-15", ""},
		{"2026-10-16", "Future dates are not allowed"},
		{"2026-02-30", "Invalid date format"},
		{"15/10/2026", "Invalid date format"},
		{"", "Please select a date"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			f := NewSaleForm(fixedRules())
			f.Date = tt.date
			assert.Equal(t, tt.want, f.Validate(false)["Date"])
		})
	}
}

func TestSaleForm_PaymentMethodRequiredWhenPaid(t *testing.T) {
	f := validSale()
	f.PaymentReceived = "500"
	assert.Equal(t, "Please select a valid payment method when payment is received", f.Validate(false)["PaymentMethod"])

	f.PaymentMethod = ledger.MethodUPI
	assert.Empty(t, f.Validate(false))

	f.PaymentMethod = ledger.MethodPlaceholder
	f.PaymentReceived = "0"
	assert.Empty(t, f.Validate(false))
}

func TestSaleForm_NumericRules(t *testing.T) {
	tests := []struct {
		field, value string
		bad          bool
	}{
		{"Quantity", "0", true},
		{"Quantity", "2.5", true},
		{"Quantity", "3", false},
		{"Rate", "-1", true},
		{"Rate", "0.5", false},
		{"VehicleRent", "-5", true},
		{"VehicleRent", "0", false},
		{"VehicleRent", "", false},
		{"PaymentReceived", "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			f := validSale()
			require.NoError(t, f.Set(tt.field, tt.value))
			_, has := f.Validate(false)[tt.field]
			assert.Equal(t, tt.bad, has)
		})
	}
}

func TestSaleForm_Amount(t *testing.T) {
	f := NewSaleForm(fixedRules())
	assert.Zero(t, f.Amount())

	f.Quantity = "10"
	f.Rate = "12.5"
	assert.Equal(t, 125.0, f.Amount())

	f.VehicleRent = "20"
	assert.Equal(t, 145.0, f.Amount())

	f.VehicleRent = "oops"
	assert.Equal(t, 125.0, f.Amount())

	f.Rate = "x"
	assert.Zero(t, f.Amount())
}

func TestSaleForm_Input(t *testing.T) {
	f := validSale()
	f.VehicleRent = "20"
	f.Remarks = "  "

	in := f.Input()
	assert.Equal(t, "C1", in.CustomerID)
	assert.Equal(t, 10, in.Quantity)
	assert.Equal(t, 145.0, in.Amount)
	require.NotNil(t, in.VehicleRent)
	assert.Equal(t, 20, *in.VehicleRent)
	assert.Nil(t, in.PaymentMethod, "placeholder method is not sent")
	assert.Nil(t, in.PaymentReceived)
	assert.Nil(t, in.Remarks)
}

func TestEditSaleForm(t *testing.T) {
	method := ledger.MethodCash
	f, touched := EditSaleForm(fixedRules(), ledger.Sale{
		SaleID: "S1", CustomerID: "C1", Date: "2026-10-01T00:00:00.000Z",
		Quantity: 4, Rate: 2.5, PaymentMethod: &method,
	})

	assert.Equal(t, "2026-10-01", f.Date)
	assert.Equal(t, "4", f.Quantity)
	assert.Equal(t, "2.5", f.Rate)
	assert.Equal(t, []string{"CustomerID", "Date", "Quantity", "Rate", "PaymentMethod"}, touched)
}

func TestPaymentForm(t *testing.T) {
	f := NewPaymentForm(fixedRules())
	errs := f.Validate(false)
	assert.Equal(t, "Please select a valid payment method", errs["PaymentMethod"])
	assert.Equal(t, "Please enter a valid integer payment amount greater than 0", errs["PaymentReceived"])

	assert.NotContains(t, f.Validate(true), "PaymentReceived", "blank amount is not flagged while typing")

	f.CustomerID = "C2"
	f.PaymentMethod = ledger.MethodCheque
	f.PaymentReceived = "0"
	assert.Contains(t, f.Validate(false), "PaymentReceived")

	f.PaymentReceived = "750"
	f.Remarks = "advance"
	assert.Empty(t, f.Validate(false))

	in := f.Input()
	assert.Equal(t, 750, in.PaymentReceived)
	assert.Equal(t, ledger.MethodCheque, in.PaymentMethod)
	require.NotNil(t, in.Remarks)
	assert.Equal(t, "advance", *in.Remarks)
}

func TestMachine_LiveErrorsOnlyForTouchedFields(t *testing.T) {
	m := NewMachine(NewSaleForm(fixedRules()))
	require.NoError(t, m.Open())
	assert.Equal(t, Editing, m.State())
	assert.Empty(t, m.Errors())

	require.NoError(t, m.Change("Quantity", ""))
	assert.Empty(t, m.Errors(), "blank quantity is not reported while typing")

	require.NoError(t, m.Change("Quantity", "abc"))
	assert.Equal(t, Errors{"Quantity": "Please enter a valid integer quantity greater than 0"}, m.Errors())

	require.NoError(t, m.Change("Quantity", "3"))
	assert.Empty(t, m.Errors())

	assert.ErrorIs(t, m.Change("Colour", "red"), ErrUnknownField)
}

func TestMachine_SubmitShowsAllErrors(t *testing.T) {
	m := NewMachine(NewSaleForm(fixedRules()))
	require.NoError(t, m.Open())

	err := m.Submit()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, Editing, m.State())
	assert.Len(t, m.Errors(), 3)
}

func TestMachine_Run(t *testing.T) {
	t.Run("success closes the form", func(t *testing.T) {
		m := NewMachine(validSale())
		require.NoError(t, m.Open())

		var saved ledger.SaleInput
		err := m.Run(context.Background(), func(_ context.Context, f *SaleForm) error {
			saved = f.Input()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, Idle, m.State())
		assert.Equal(t, 10, saved.Quantity)
	})

	t.Run("api failure keeps the form open", func(t *testing.T) {
		m := NewMachine(validSale())
		require.NoError(t, m.Open())

		boom := errors.New("Failed to save sale")
		err := m.Run(context.Background(), func(context.Context, *SaleForm) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, Failed, m.State())
		assert.Equal(t, Errors{FieldAPI: "Failed to save sale"}, m.Errors())

		require.NoError(t, m.Change("Rate", "13"))
		assert.Equal(t, Editing, m.State())
	})

	t.Run("field failure lands on the field", func(t *testing.T) {
		m := NewMachine(NewCustomerForm(fixedRules()))
		require.NoError(t, m.Open())
		require.NoError(t, m.Change("CustomerName", "acme"))

		err := m.Run(context.Background(), func(context.Context, *CustomerForm) error {
			return &FieldError{Field: "CustomerName", Message: "Failed to add customer"}
		})
		require.Error(t, err)
		assert.Equal(t, Errors{"CustomerName": "Failed to add customer"}, m.Errors())
	})
}

func TestMachine_Transitions(t *testing.T) {
	m := NewMachine(NewCustomerForm(fixedRules()))

	assert.ErrorIs(t, m.Submit(), ErrInvalidTransition)
	assert.ErrorIs(t, m.Succeed(), ErrInvalidTransition)

	require.NoError(t, m.Open("CustomerName"))
	assert.Contains(t, m.Errors(), "CustomerName", "pre-touched fields validate on open")
	assert.ErrorIs(t, m.Open(), ErrInvalidTransition)

	m.Cancel()
	assert.Equal(t, Idle, m.State())
	assert.Empty(t, m.Errors())
	assert.Equal(t, "submitting", Submitting.String())
}

func validSale() *SaleForm {
	f := NewSaleForm(fixedRules())
	f.CustomerID = "C1"
	f.Date = "2026-10-01"
	f.Quantity = "10"
	f.Rate = "12.5"
	return f
}
