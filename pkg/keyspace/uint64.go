package keyspace

import (
	"cmp"
	"math"
	"math/big"
	"strconv"
)

// Uint64 is the fixed width key space: native 64-bit unsigned integers.
type Uint64 struct{}

var _ Space[uint64] = Uint64{}

func (Uint64) Name() string { return KindUint64 }

func (Uint64) Compare(a, b uint64) int { return cmp.Compare(a, b) }

func (Uint64) Parse(s string) (uint64, error) {
	if s == "" {
		return 0, malformed(s, "empty")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, malformed(s, err.Error())
	}
	return v, nil
}

func (Uint64) Format(k uint64) string { return strconv.FormatUint(k, 10) }

func (Uint64) Min() uint64 { return 0 }

func (Uint64) Max() uint64 { return math.MaxUint64 }

func (u Uint64) ExtentEnd(start uint64, length string) (uint64, error) {
	l, err := u.Parse(length)
	if err != nil {
		return 0, err
	}
	if l == 0 {
		return 0, malformed(length, "zero length extent")
	}
	if start > math.MaxUint64-(l-1) {
		return 0, malformed(length, "extent overflows 64 bits")
	}
	return start + l - 1, nil
}

func (Uint64) Length(start, end uint64) *big.Int {
	l := new(big.Int).SetUint64(end - start)
	return l.Add(l, big.NewInt(1))
}
