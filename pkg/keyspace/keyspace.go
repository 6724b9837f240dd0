// Package keyspace defines the endpoint key representations an interval
// tree can be built over. Every representation is a Space: a stateless
// three-way comparator plus the parsing and arithmetic the loader and the
// coverage computation need.
package keyspace

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// ErrMalformedKey is returned when an input field cannot be turned into a key.
var ErrMalformedKey = errors.New("malformed key")

// Space is a totally ordered endpoint key type.
type Space[K any] interface {
	// Name is the identifier used on the command line.
	Name() string
	// Compare returns -1, 0 or 1. It must not depend on hidden state.
	Compare(a, b K) int
	Parse(s string) (K, error)
	Format(k K) string
	Min() K
	Max() K
	// ExtentEnd converts a (start, length) pair to the inclusive end key
	// start+length-1.
	ExtentEnd(start K, length string) (K, error)
	// Length returns the number of keys in [start, end].
	Length(start, end K) *big.Int
}

// Describer is implemented by spaces that can give a human readable summary
// of a span, such as the CIDR prefixes covering an address range.
type Describer[K any] interface {
	Describe(start, end K) string
}

// Kinds lists the key kinds accepted by the command line.
var Kinds = []string{KindUint64, KindDecimal, KindIPv4}

const (
	KindUint64  = "uint64"
	KindDecimal = "decimal"
	KindIPv4    = "ipv4"
)

// IsKind reports whether name is a known key kind.
func IsKind(name string) bool {
	return slices.Contains(Kinds, name)
}

// ParseRange parses a "lo-hi" pair into two keys of the given space.
func ParseRange[K any](space Space[K], s string) (K, K, error) {
	var lo, hi K
	h := strings.IndexByte(s, '-')
	if h == -1 {
		return lo, hi, fmt.Errorf("no hyphen in range %q", s)
	}
	from, to := strings.TrimSpace(s[:h]), strings.TrimSpace(s[h+1:])
	lo, err := space.Parse(from)
	if err != nil {
		return lo, hi, fmt.Errorf("invalid from key %q in range %q: %w", from, s, err)
	}
	hi, err = space.Parse(to)
	if err != nil {
		return lo, hi, fmt.Errorf("invalid to key %q in range %q: %w", to, s, err)
	}
	if space.Compare(lo, hi) > 0 {
		return lo, hi, fmt.Errorf("range %q: from is after to", s)
	}
	return lo, hi, nil
}

func malformed(s string, reason string) error {
	return fmt.Errorf("%w: %q: %s", ErrMalformedKey, s, reason)
}
