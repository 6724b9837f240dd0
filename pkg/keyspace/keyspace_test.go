package keyspace

import (
	"errors"
	"math"
	"math/big"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecimalCompare(t *testing.T) {
	cases := map[string]struct {
		a, b     string
		expected int
	}{
		"Equal":          {a: "42", b: "42", expected: 0},
		"ShorterIsLess":  {a: "9", b: "10", expected: -1},
		"LongerIsMore":   {a: "100", b: "99", expected: 1},
		"SameLengthLess": {a: "123", b: "124", expected: -1},
		"BeyondUint64":   {a: "18446744073709551616", b: "18446744073709551615", expected: 1},
		"LeadingZeros":   {a: "0009", b: "10", expected: -1},
		"ZerosEqual":     {a: "0042", b: "42", expected: 0},
		"AllZeros":       {a: "000", b: "0", expected: 0},
	}
	d := Decimal{}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := d.Parse(tc.a)
			assert.NoError(t, err)
			b, err := d.Parse(tc.b)
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, d.Compare(a, b))
			assert.Equal(t, -tc.expected, d.Compare(b, a))
		})
	}
}

func TestDecimalParse(t *testing.T) {
	cases := map[string]struct {
		in          string
		expected    string
		expectedErr bool
	}{
		"Plain":        {in: "1234", expected: "1234"},
		"LeadingZeros": {in: "000123", expected: "000123"},
		"Zero":         {in: "0000", expected: "0000"},
		"Empty":        {in: "", expectedErr: true},
		"Letters":      {in: "12a4", expectedErr: true},
		"Negative":     {in: "-5", expectedErr: true},
	}
	d := Decimal{}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := d.Parse(tc.in)
			if tc.expectedErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedKey))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestExtentEnd(t *testing.T) {
	t.Run("Uint64", func(t *testing.T) {
		u := Uint64{}
		end, err := u.ExtentEnd(1, "4")
		assert.NoError(t, err)
		assert.Equal(t, uint64(4), end)

		end, err = u.ExtentEnd(math.MaxUint64, "1")
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), end)

		_, err = u.ExtentEnd(math.MaxUint64, "2")
		assert.ErrorIs(t, err, ErrMalformedKey)

		_, err = u.ExtentEnd(5, "0")
		assert.ErrorIs(t, err, ErrMalformedKey)
	})
	t.Run("Decimal", func(t *testing.T) {
		d := Decimal{}
		end, err := d.ExtentEnd("18446744073709551615", "2")
		assert.NoError(t, err)
		assert.Equal(t, "18446744073709551616", end)

		end, err = d.ExtentEnd("0010", "005")
		assert.NoError(t, err)
		assert.Equal(t, "14", end)

		_, err = d.ExtentEnd("1", "000")
		assert.ErrorIs(t, err, ErrMalformedKey)

		_, err = d.ExtentEnd("1", "x")
		assert.ErrorIs(t, err, ErrMalformedKey)
	})
	t.Run("IPv4", func(t *testing.T) {
		ip := IPv4{}
		start := netip.MustParseAddr("10.0.0.0")
		end, err := ip.ExtentEnd(start, "256")
		assert.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("10.0.0.255"), end)

		_, err = ip.ExtentEnd(netip.MustParseAddr("255.255.255.255"), "2")
		assert.ErrorIs(t, err, ErrMalformedKey)
	})
}

func TestLength(t *testing.T) {
	full := new(big.Int).Lsh(big.NewInt(1), 64)
	assert.Equal(t, 0, Uint64{}.Length(0, math.MaxUint64).Cmp(full))
	assert.Equal(t, int64(8), Uint64{}.Length(1, 8).Int64())
	assert.Equal(t, int64(3), Decimal{}.Length("10", "12").Int64())
	assert.Equal(t, int64(5), Decimal{}.Length("0001", "05").Int64())
	assert.Equal(t, int64(256), IPv4{}.Length(
		netip.MustParseAddr("192.168.1.0"),
		netip.MustParseAddr("192.168.1.255")).Int64())
}

func TestParseRange(t *testing.T) {
	cases := map[string]struct {
		in          string
		lo, hi      uint64
		expectedErr bool
	}{
		"Normal":    {in: "40-50", lo: 40, hi: 50},
		"Spaces":    {in: " 40 - 50 ", lo: 40, hi: 50},
		"NoHyphen":  {in: "4050", expectedErr: true},
		"Reversed":  {in: "50-40", expectedErr: true},
		"BadFrom":   {in: "x-50", expectedErr: true},
		"BadTo":     {in: "40-", expectedErr: true},
		"MaxBounds": {in: "0-18446744073709551615", lo: 0, hi: math.MaxUint64},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			lo, hi, err := ParseRange[uint64](Uint64{}, tc.in)
			if tc.expectedErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.lo, lo)
			assert.Equal(t, tc.hi, hi)
		})
	}
}

func TestDescribe(t *testing.T) {
	got := IPv4{}.Describe(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.1.255"))
	assert.Equal(t, "10.0.0.0/23", got)

	got = IPv4{}.Describe(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"))
	assert.Equal(t, "10.0.0.1/32 10.0.0.2/32", got)
}

func TestIsKind(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, IsKind(k))
	}
	assert.False(t, IsKind("float"))
}
