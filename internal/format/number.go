// Package format turns raw counters into compact, locale-independent strings.
package format

import "strconv"

// Compact renders a non-negative counter in compact form.
// Values below 1000 are returned verbatim; larger values are expressed in
// thousands with at most one decimal, rounded half-up ("1.5k", "2k").
func Compact(n int64) string {
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	if n%1000 == 0 {
		return strconv.FormatInt(n/1000, 10) + "k"
	}

	tenths := (n + 50) / 100
	return strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10) + "k"
}
