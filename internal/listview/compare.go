package listview

import "strings"

// compare orders two column values. Two numbers compare numerically; anything else compares
// as strings. Missing values become "" or 0 depending on the other side.
func compare(a, b any) int {
	af, aNum, aNil := number(a)
	bf, bNum, bNil := number(b)
	if (aNum || aNil) && (bNum || bNil) && (aNum || bNum) {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (f float64, ok bool, missing bool) {
	switch n := v.(type) {
	case nil:
		return 0, false, true
	case int:
		return float64(n), true, false
	case int64:
		return float64(n), true, false
	case float64:
		return n, true, false
	case *int:
		if n == nil {
			return 0, false, true
		}
		return float64(*n), true, false
	case *float64:
		if n == nil {
			return 0, false, true
		}
		return *n, true, false
	case *string:
		if n == nil {
			return 0, false, true
		}
	}
	return 0, false, false
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	}
	return ""
}
