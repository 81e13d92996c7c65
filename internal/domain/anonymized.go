package domain

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// AnonymizedAddress is an IPv4 address in dotted-quad form with its last
// octet zeroed, e.g. "123.213.231.0".
type AnonymizedAddress string

// AnonymizeIPv4 zeroes the last octet of addr. addr must be an IPv4 address.
func AnonymizeIPv4(addr netip.Addr) AnonymizedAddress {
	if !addr.Is4() {
		panic(fmt.Sprintf("AnonymizeIPv4: %s is not an IPv4 address", addr))
	}
	o := addr.As4()
	return AnonymizedAddress(fmt.Sprintf("%d.%d.%d.0", o[0], o[1], o[2]))
}

// AnonymizeRemote parses a client address ("1.2.3.4" or "1.2.3.4:5678") and
// anonymizes it. IPv6, IPv4-mapped IPv6, empty and malformed values give nil.
func AnonymizeRemote(raw string) *AnonymizedAddress {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}

	addr, err := netip.ParseAddr(raw)
	if err != nil || !addr.Is4() {
		return nil
	}

	anon := AnonymizeIPv4(addr)
	return &anon
}
