// Package format renders money, dates and names the way the dashboard displays them.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is rendered for absent or unusable input.
const Placeholder = "-"

// InvalidDate is rendered for timestamps that are present but cannot be parsed.
const InvalidDate = "Invalid Date"

// INR formats an amount in rupees with Indian digit grouping: "₹10,00,000", "₹10.50".
func INR(v float64) string {
	return withPrefix(v, "₹")
}

// INROf is INR for an optional amount.
func INROf(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return INR(*v)
}

// INRPlain is INR with an ASCII "INR " prefix, for outputs without the rupee glyph.
func INRPlain(v float64) string {
	return withPrefix(v, "INR ")
}

func withPrefix(v float64, prefix string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	var digits string
	if v == math.Trunc(v) {
		digits = strconv.FormatFloat(math.Abs(v), 'f', 0, 64)
	} else {
		digits = decimal.NewFromFloat(math.Abs(v)).StringFixed(2)
	}
	intPart, frac, _ := strings.Cut(digits, ".")
	out := prefix + groupIndian(intPart)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 {
		out = "-" + out
	}
	return out
}

// groupIndian inserts separators after the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

var dateLayouts = []string{
	"2006/01/02",
	"2006/1/2",
	"2006/01/02T15:04:05Z07:00",
	"2006/01/02T15:04:05.000Z07:00",
	"2006/01/02 15:04:05",
	"01/02/2006",
}

// Date renders a date string as dd-mm-yyyy. Dashes are treated as slashes before parsing, so
// both "2024-01-05" and "2024/01/05" work. Unparseable input gives the placeholder.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	t, ok := parseDate(strings.ReplaceAll(s, "-", "/"))
	if !ok {
		return Placeholder
	}
	return DateOf(t)
}

// DateOf renders t as dd-mm-yyyy.
func DateOf(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("02-01-2006")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTime renders a timestamp as "5 Jan 2024, 3:04 pm".
func DateTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2 Jan 2006, 3:04 pm")
		}
	}
	return InvalidDate
}

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

// CapitalizeName trims the name, lower-cases it and upper-cases the first letter of every
// whitespace separated word. Interior whitespace is kept as typed.
func CapitalizeName(name string) string {
	name = lower.String(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	wordStart := true
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			wordStart = true
			b.WriteRune(r)
		case wordStart:
			wordStart = false
			b.WriteString(upper.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
