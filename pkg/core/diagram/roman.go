package diagram

import (
	"strconv"
	"strings"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman formats n as an upper-case roman numeral. Values below 1 yield "".
func Roman(n int) string {
	if n < 1 {
		return ""
	}
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// FretLabel formats a fret number for the side of the diagram.
func FretLabel(fret int, roman bool) string {
	if roman {
		return Roman(fret)
	}
	return strconv.Itoa(fret)
}
