package keyspace

import (
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"go4.org/netipx"
)

// IPv4 is the address key space: dotted quads ordered numerically. Extent
// lengths are address counts.
type IPv4 struct{}

var (
	_ Space[netip.Addr]     = IPv4{}
	_ Describer[netip.Addr] = IPv4{}
)

func (IPv4) Name() string { return KindIPv4 }

func (IPv4) Compare(a, b netip.Addr) int { return a.Compare(b) }

func (IPv4) Parse(s string) (netip.Addr, error) {
	if s == "" {
		return netip.Addr{}, malformed(s, "empty")
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, malformed(s, err.Error())
	}
	if !a.Is4() {
		return netip.Addr{}, malformed(s, "not an IPv4 address")
	}
	return a, nil
}

func (IPv4) Format(k netip.Addr) string { return k.String() }

func (IPv4) Min() netip.Addr { return netip.AddrFrom4([4]byte{}) }

func (IPv4) Max() netip.Addr { return netip.AddrFrom4([4]byte{255, 255, 255, 255}) }

func (IPv4) ExtentEnd(start netip.Addr, length string) (netip.Addr, error) {
	l, err := strconv.ParseUint(length, 10, 32)
	if err != nil {
		return netip.Addr{}, malformed(length, err.Error())
	}
	if l == 0 {
		return netip.Addr{}, malformed(length, "zero length extent")
	}
	s := addrToUint32(start)
	if uint64(s)+l-1 > uint64(^uint32(0)) {
		return netip.Addr{}, malformed(length, "extent overflows the address space")
	}
	return uint32ToAddr(s + uint32(l-1)), nil
}

func (IPv4) Length(start, end netip.Addr) *big.Int {
	l := new(big.Int).SetUint64(uint64(addrToUint32(end) - addrToUint32(start)))
	return l.Add(l, big.NewInt(1))
}

// Describe lists the CIDR prefixes that exactly cover [start, end].
func (IPv4) Describe(start, end netip.Addr) string {
	r := netipx.IPRangeFrom(start, end)
	if !r.IsValid() {
		return ""
	}
	prefixes := r.Prefixes()
	s := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		s = append(s, p.String())
	}
	return strings.Join(s, " ")
}

func addrToUint32(a netip.Addr) uint32 {
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func uint32ToAddr(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
