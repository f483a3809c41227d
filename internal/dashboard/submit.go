package dashboard

import (
	"context"
	"errors"
	"sort"

	"sales_dashboard/internal/forms"
)

// submit drives one dialog from open to close: it opens form with touched pre-marked,
// applies values the way a user would type them and saves. The returned errors are what
// the dialog would show; they are non-empty whenever err is non-nil, except for an
// unknown field.
func submit[F forms.Form](ctx context.Context, form F, touched []string, values map[string]string, save func(context.Context, F) error) (forms.Errors, error) {
	m := forms.NewMachine(form)
	if err := m.Open(touched...); err != nil {
		return nil, err
	}

	if err := change(m, values); err != nil {
		return nil, err
	}

	err := m.Run(ctx, save)
	if err != nil && !errors.Is(err, forms.ErrInvalid) && len(m.Errors()) == 0 {
		return forms.Errors{forms.FieldAPI: err.Error()}, err
	}
	return m.Errors(), err
}

// check validates a dialog without saving it, as the dialog does on every keystroke.
func check[F forms.Form](form F, touched []string, values map[string]string) (forms.Errors, error) {
	m := forms.NewMachine(form)
	if err := m.Open(touched...); err != nil {
		return nil, err
	}
	if err := change(m, values); err != nil {
		return nil, err
	}
	return m.Errors(), nil
}

// change types values into m in field name order, so the result does not depend on map
// iteration.
func change[F forms.Form](m *forms.Machine[F], values map[string]string) error {
	fields := make([]string, 0, len(values))
	for f := range values {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if err := m.Change(f, values[f]); err != nil {
			return err
		}
	}
	return nil
}
