// File: utils/currency.go
package utils

import "strconv"

// FormatVND renders an integer VND amount with thousands grouping for
// display, e.g. 1000000 -> "1.000.000 ₫". The ledger itself always stores
// exact integer VND.
func FormatVND(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := string(out) + " ₫"
	if negative {
		s = "-" + s
	}
	return s
}
