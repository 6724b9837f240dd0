package keyspace

import (
	"math/big"
	"strings"
)

// decimalMax is the largest unsigned long on a 64-bit host. Decimal keys are
// not bounded by it; callers scanning everything widen it with
// coverage.UpperBound.
const decimalMax = "18446744073709551615"

// Decimal is the arbitrary precision key space. Keys are digit strings kept
// as written, leading zeros included, and compared by numeric value.
type Decimal struct{}

var _ Space[string] = Decimal{}

func (Decimal) Name() string { return KindDecimal }

// Compare orders digit strings numerically: once leading zeros are dropped a
// shorter string is a smaller number, equal lengths compare bytewise.
func (Decimal) Compare(a, b string) int {
	a, b = significant(a), significant(b)
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

// Parse validates s as a run of digits. The text is returned unchanged so
// that output echoes the input.
func (Decimal) Parse(s string) (string, error) {
	if s == "" {
		return "", malformed(s, "empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", malformed(s, "not a decimal number")
		}
	}
	return s, nil
}

func significant(k string) string {
	k = strings.TrimLeft(k, "0")
	if k == "" {
		return "0"
	}
	return k
}

func (Decimal) Format(k string) string { return k }

func (Decimal) Min() string { return "0" }

func (Decimal) Max() string { return decimalMax }

func (d Decimal) ExtentEnd(start string, length string) (string, error) {
	l, err := d.Parse(length)
	if err != nil {
		return "", err
	}
	if significant(l) == "0" {
		return "", malformed(length, "zero length extent")
	}
	end := toBig(start)
	end.Add(end, toBig(l))
	end.Sub(end, big.NewInt(1))
	return end.String(), nil
}

func (Decimal) Length(start, end string) *big.Int {
	l := toBig(end)
	l.Sub(l, toBig(start))
	return l.Add(l, big.NewInt(1))
}

// toBig converts a key already validated by Parse.
func toBig(k string) *big.Int {
	v, ok := new(big.Int).SetString(k, 10)
	if !ok {
		panic("keyspace: decimal key " + k + " was not produced by Parse")
	}
	return v
}
