package format

import "strings"

// CompareNatural orders strings so that embedded numbers compare by value:
// "item2" sorts before "item10". Runs of non-digits compare by code point.
// When two strings are equal under that rule ("a01" and "a1") the first
// differing digit run, then the plain byte order, decides, so the result
// is a total order and sorting is deterministic.
func CompareNatural(a, b string) int {
	tie := 0
	x, y := a, b
	for x != "" && y != "" {
		var cx, cy string
		cx, x = nextRun(x)
		cy, y = nextRun(y)

		if isDigit(cx[0]) && isDigit(cy[0]) {
			if c := compareDigits(cx, cy); c != 0 {
				return c
			}
			if tie == 0 {
				tie = strings.Compare(cx, cy)
			}
			continue
		}
		if c := strings.Compare(cx, cy); c != 0 {
			return c
		}
	}

	switch {
	case x == "" && y != "":
		return -1
	case x != "" && y == "":
		return 1
	case tie != 0:
		return tie
	}
	return strings.Compare(a, b)
}

// NaturalLess reports whether a sorts before b in natural order.
func NaturalLess(a, b string) bool {
	return CompareNatural(a, b) < 0
}

// nextRun splits off the leading run of digits or of non-digits.
func nextRun(s string) (run, rest string) {
	digits := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit runs by numeric value without
// converting them, so arbitrarily long runs cannot overflow.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
