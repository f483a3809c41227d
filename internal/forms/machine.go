// Package forms validates the create/edit dialogs and tracks their lifecycle.
package forms

import (
	"context"
	"errors"
	"fmt"
)

// State is where a form is in its lifecycle.
type State int

// Form states.
const (
	Idle State = iota
	Editing
	Submitting
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FieldAPI is the key used for errors that belong to no single field.
const FieldAPI = "api"

var (
	// ErrInvalidTransition is returned for an action the current state does not allow.
	ErrInvalidTransition = errors.New("invalid form transition")
	// ErrInvalid is returned by Submit when validation fails.
	ErrInvalid = errors.New("form has validation errors")
	// ErrUnknownField is returned by Change for a field the form does not have.
	ErrUnknownField = errors.New("unknown form field")
)

// Errors maps field names to messages.
type Errors map[string]string

// FieldError attaches a submit failure to one field instead of the top-level slot.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return e.Err }

// Form is a dialog's field values.
type Form interface {
	// Set assigns a raw field value.
	Set(field, value string) error
	// Validate checks the values. In live mode, optional-while-typing fields that are still
	// blank are not reported.
	Validate(live bool) Errors
	// Fields lists the field names in display order.
	Fields() []string
}

// Machine drives one form through Idle, Editing, Submitting and Failed.
type Machine[F Form] struct {
	form    F
	state   State
	touched map[string]bool
	errors  Errors
}

// NewMachine returns an idle machine around form.
func NewMachine[F Form](form F) *Machine[F] {
	return &Machine[F]{form: form, touched: map[string]bool{}, errors: Errors{}}
}

// State returns the current state.
func (m *Machine[F]) State() State { return m.state }

// Form returns the form being edited.
func (m *Machine[F]) Form() F { return m.form }

// Errors returns a copy of the current errors.
func (m *Machine[F]) Errors() Errors {
	out := make(Errors, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

// Open starts editing. Fields named in touched are validated live right away, the way an
// edit dialog pre-marks the fields it filled in.
func (m *Machine[F]) Open(touched ...string) error {
	if m.state != Idle {
		return fmt.Errorf("%w: open from %s", ErrInvalidTransition, m.state)
	}
	m.state = Editing
	m.touched = map[string]bool{}
	for _, f := range touched {
		m.touched[f] = true
	}
	m.revalidate()
	return nil
}

// Change sets one field, marks it touched and re-runs live validation.
func (m *Machine[F]) Change(field, value string) error {
	if m.state != Editing && m.state != Failed {
		return fmt.Errorf("%w: change from %s", ErrInvalidTransition, m.state)
	}
	if err := m.form.Set(field, value); err != nil {
		return err
	}
	m.state = Editing
	m.touched[field] = true
	m.revalidate()
	return nil
}

// Touch marks fields as touched without changing them.
func (m *Machine[F]) Touch(fields ...string) {
	for _, f := range fields {
		m.touched[f] = true
	}
	m.revalidate()
}

func (m *Machine[F]) revalidate() {
	live := m.form.Validate(true)
	m.errors = Errors{}
	for field, msg := range live {
		if m.touched[field] {
			m.errors[field] = msg
		}
	}
}

// Submit validates every field. On success the machine enters Submitting; otherwise it stays
// where it was with all errors shown and ErrInvalid is returned.
func (m *Machine[F]) Submit() error {
	if m.state != Editing && m.state != Failed {
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, m.state)
	}
	errs := m.form.Validate(false)
	for _, f := range m.form.Fields() {
		m.touched[f] = true
	}
	m.errors = errs
	if len(errs) > 0 {
		return ErrInvalid
	}
	m.state = Submitting
	return nil
}

// Succeed closes the form after the API accepted it.
func (m *Machine[F]) Succeed() error {
	if m.state != Submitting {
		return fmt.Errorf("%w: succeed from %s", ErrInvalidTransition, m.state)
	}
	m.state = Idle
	m.errors = Errors{}
	m.touched = map[string]bool{}
	return nil
}

// Fail keeps the form open with err shown against its field, or at the top level.
func (m *Machine[F]) Fail(err error) error {
	if m.state != Submitting {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, m.state)
	}
	m.state = Failed
	var fe *FieldError
	if errors.As(err, &fe) {
		m.errors = Errors{fe.Field: fe.Message}
	} else {
		m.errors = Errors{FieldAPI: err.Error()}
	}
	return nil
}

// Cancel closes the form from any state.
func (m *Machine[F]) Cancel() {
	m.state = Idle
	m.errors = Errors{}
	m.touched = map[string]bool{}
}

// Run submits the form and hands it to save. The machine ends Idle when save succeeds and
// Failed when it returns an error, which Run passes back.
func (m *Machine[F]) Run(ctx context.Context, save func(context.Context, F) error) error {
	if err := m.Submit(); err != nil {
		return err
	}
	if err := save(ctx, m.form); err != nil {
		_ = m.Fail(err)
		return err
	}
	return m.Succeed()
}
