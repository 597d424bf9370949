// Package validate normalizes and checks tool input fields before any
// network call is attempted. Validation failures are caller mistakes,
// not transient conditions: they are never retried and never cached.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Error is a field-level validation failure, a distinct class from
// upstream failures.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func fail(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

// Phone normalizes a Brazilian phone number to its national digits,
// stripping formatting and the +55 country code. Mobile numbers have 11
// digits, landlines 10; anything else is rejected.
func Phone(field, s string) (string, error) {
	digits := onlyDigits(s)
	if strings.HasPrefix(digits, "55") && len(digits) >= 12 {
		digits = digits[2:]
	}
	if len(digits) != 10 && len(digits) != 11 {
		return "", fail(field, fmt.Sprintf("expected 10 or 11 national digits, got %d", len(digits)))
	}
	return digits, nil
}

// CPF validates a Brazilian taxpayer identifier and returns its bare 11
// digits. Repeated-digit sequences pass the checksum arithmetic but are
// not valid documents, so they are rejected explicitly.
func CPF(field, s string) (string, error) {
	digits := onlyDigits(s)
	if len(digits) != 11 {
		return "", fail(field, "must have 11 digits")
	}
	if allSame(digits) {
		return "", fail(field, "repeated-digit sequences are not valid")
	}

	d := make([]int, 11)
	for i, r := range digits {
		d[i] = int(r - '0')
	}
	if cpfCheckDigit(d[:9], 10) != d[9] || cpfCheckDigit(d[:10], 11) != d[10] {
		return "", fail(field, "checksum mismatch")
	}
	return digits, nil
}

// cpfCheckDigit computes a CPF verification digit over the given base
// digits with descending weights starting at firstWeight.
func cpfCheckDigit(base []int, firstWeight int) int {
	sum := 0
	for i, digit := range base {
		sum += digit * (firstWeight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// Date checks a calendar date in YYYY-MM-DD form and returns it
// unchanged. time.Parse rejects impossible dates like 2024-02-30.
func Date(field, s string) (string, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fail(field, "must be a valid date in YYYY-MM-DD form")
	}
	return s, nil
}

// DateTime checks a date-time in "YYYY-MM-DD HH:MM" form.
func DateTime(field, s string) (string, error) {
	if _, err := time.Parse("2006-01-02 15:04", s); err != nil {
		return "", fail(field, "must be a valid date-time in YYYY-MM-DD HH:MM form")
	}
	return s, nil
}

// Enum checks s against a closed value set.
func Enum(field, s string, allowed ...string) (string, error) {
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fail(field, "must be one of: "+strings.Join(allowed, ", "))
}

// Currency coerces a JSON value to a non-negative amount rounded to two
// decimal places. JSON numbers arrive as float64; numeric strings are
// tolerated because upstream billing payloads use them.
func Currency(field string, v any) (float64, error) {
	var amount float64
	switch val := v.(type) {
	case float64:
		amount = val
	case int:
		amount = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fail(field, "must be numeric")
		}
		amount = parsed
	default:
		return 0, fail(field, "must be numeric")
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fail(field, "must be a finite number")
	}
	if amount < 0 {
		return 0, fail(field, "must not be negative")
	}
	return math.Round(amount*100) / 100, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
