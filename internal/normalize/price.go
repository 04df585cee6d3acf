package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errEmptyPrice     = errors.New("empty price text")
	errAmbiguousPrice = errors.New("price text holds more than one number")
)

// ParsePrice extracts the unit price from portal price text such as
// "R$ 1.234,56/kg". Only the part before the first "/" is considered, and it
// must hold exactly one number: "De R$ 12,90 Por R$ 9,90" is rejected.
//
// Separators: when both "," and "." occur the later one is the decimal
// separator. A lone "," is decimal. A lone "." is decimal unless it is
// repeated or followed by exactly three digits, in which case it groups thousands.
func ParsePrice(text string) (decimal.Decimal, error) {
	if i := strings.Index(text, "/"); i >= 0 {
		text = text[:i]
	}
	trimmed := strings.TrimSpace(text)

	runs := numericRuns(text)
	switch {
	case len(runs) == 0:
		return decimal.Zero, errEmptyPrice
	case len(runs) > 1:
		return decimal.Zero, fmt.Errorf("%w: %q", errAmbiguousPrice, trimmed)
	}

	run := runs[0]
	if negative(text[:run[0]]) {
		return decimal.Zero, fmt.Errorf("negative price %q", trimmed)
	}

	number := canonicalNumber(text[run[0]:run[1]])
	price, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", trimmed, err)
	}
	return price, nil
}

// numericRuns returns the [start, end) offsets of every number in s. A number
// starts with a digit; "," and "." belong to it only when a digit follows.
func numericRuns(s string) [][2]int {
	var runs [][2]int
	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			i++
			continue
		}
		start := i
		for i < len(s) && (isDigit(s[i]) || (s[i] == ',' || s[i] == '.') && i+1 < len(s) && isDigit(s[i+1])) {
			i++
		}
		runs = append(runs, [2]int{start, i})
	}
	return runs
}

// negative reports a minus sign right before the number, allowing for a
// currency symbol in between as in "-R$ 5,00" or "R$ -5,00".
func negative(prefix string) bool {
	prefix = strings.TrimRight(prefix, " ")
	prefix = strings.TrimRight(strings.TrimSuffix(prefix, "R$"), " ")
	return strings.HasSuffix(prefix, "-")
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func canonicalNumber(s string) string {
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case dot >= 0:
		if strings.Count(s, ".") > 1 || len(s)-dot-1 == 3 {
			return strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}
