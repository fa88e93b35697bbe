package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// First number in a salary string: grouped thousands ("150 000", "150 000")
// or a plain run of digits, with an optional thousands multiplier.
var salaryNumberRegex = regexp.MustCompile(`(\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+|\d+)\s*(?:(k|к|тыс)\.?(?:[^\p{L}]|$))?`)

// ParseSalaryFloor extracts the lower bound of a display salary such as
// "150 000 – 250 000 ₽", "от 200 000 ₽" or "3k-5k $". Upper-bound-only
// strings ("до 300 000") and strings without digits are unparsable.
func ParseSalaryFloor(s string) (int64, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" || strings.HasPrefix(lower, "до ") || strings.HasPrefix(lower, "up to") {
		return 0, false
	}

	m := salaryNumberRegex.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		n *= 1000
	}
	return n, true
}

// SalaryFloorPtr is ParseSalaryFloor shaped for nullable columns.
func SalaryFloorPtr(s string) *int64 {
	n, ok := ParseSalaryFloor(s)
	if !ok {
		return nil
	}
	return &n
}
