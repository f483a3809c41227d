package forms

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"sales_dashboard/internal/ledger"
)

// DateLayout is the form representation of a calendar date.
const DateLayout = "2006-01-02"

// Rules wraps a validator with the dashboard's custom tags registered.
type Rules struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewRules builds the validator. now decides what counts as a future date; nil means time.Now.
func NewRules(now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	r := &Rules{validate: validator.New(validator.WithRequiredStructEnabled()), now: now}

	r.mustRegister("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	r.mustRegister("calendardate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	r.mustRegister("pastdate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, fl.Field().String())
		if err != nil {
			return true
		}
		n := r.now()
		today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
		return !d.After(today)
	})
	r.mustRegister("posint", func(fl validator.FieldLevel) bool {
		n, ok := parseInt(fl.Field().String())
		return ok && n > 0
	})
	r.mustRegister("nonnegint", func(fl validator.FieldLevel) bool {
		n, ok := parseInt(fl.Field().String())
		return ok && n >= 0
	})
	r.mustRegister("posnum", func(fl validator.FieldLevel) bool {
		f, ok := parseNumber(fl.Field().String())
		return ok && f > 0
	})
	r.mustRegister("paymethod", func(fl validator.FieldLevel) bool {
		return ledger.IsPaymentMethod(fl.Field().String())
	})

	r.validate.RegisterStructValidation(saleStructRules, SaleForm{})
	return r
}

func (r *Rules) mustRegister(tag string, fn validator.Func) {
	if err := r.validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// check runs the validator on v and translates failures through messages. messages is keyed
// by "Field.tag" with "Field" as the fallback.
func (r *Rules) check(v any, messages map[string]string) Errors {
	err := r.validate.Struct(v)
	if err == nil {
		return Errors{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{FieldAPI: err.Error()}
	}
	out := Errors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = messages[field]
		}
		out[field] = msg
	}
	return out
}

// saleStructRules requires a concrete payment method whenever a payment was received.
func saleStructRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(SaleForm)
	received, ok := parseInt(f.PaymentReceived)
	if ok && received > 0 && !ledger.IsPaymentMethod(f.PaymentMethod) {
		sl.ReportError(f.PaymentMethod, "PaymentMethod", "PaymentMethod", "paymethod_if_paid", "")
	}
}

// parseInt accepts whole numbers written as integers or as floats with no fraction ("5.0").
func parseInt(s string) (int, bool) {
	f, ok := parseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
