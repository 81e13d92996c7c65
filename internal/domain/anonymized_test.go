package domain

import (
	"net/netip"
	"testing"
)

func TestAnonymizeIPv4(t *testing.T) {
	tests := []struct {
		addr     netip.Addr
		expected AnonymizedAddress
	}{
		{netip.AddrFrom4([4]byte{1, 1, 1, 1}), "1.1.1.0"},
		{netip.AddrFrom4([4]byte{123, 213, 231, 85}), "123.213.231.0"},
		{netip.AddrFrom4([4]byte{240, 80, 150, 210}), "240.80.150.0"},
		{netip.AddrFrom4([4]byte{10, 0, 0, 0}), "10.0.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.addr.String(), func(t *testing.T) {
			if got := AnonymizeIPv4(tt.addr); got != tt.expected {
				t.Errorf("AnonymizeIPv4(%s) = %s, want %s", tt.addr, got, tt.expected)
			}
		})
	}
}

func TestAnonymizeIPv4PanicsOnIPv6(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("AnonymizeIPv4() should have panicked for an IPv6 address")
		}
	}()
	AnonymizeIPv4(netip.MustParseAddr("2001:db8::1"))
}

func TestAnonymizeRemote(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string // "" means absent
	}{
		{name: "ipv4", raw: "123.213.231.85", expected: "123.213.231.0"},
		{name: "ipv4 with port", raw: "240.80.150.210:51234", expected: "240.80.150.0"},
		{name: "surrounding spaces", raw: " 1.1.1.1 ", expected: "1.1.1.0"},
		{name: "ipv6", raw: "2001:db8::1"},
		{name: "ipv6 with port", raw: "[2001:db8::1]:443"},
		{name: "ipv4-mapped ipv6", raw: "::ffff:1.2.3.4"},
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not-an-ip"},
		{name: "out of range octet", raw: "256.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeRemote(tt.raw)
			if tt.expected == "" {
				if got != nil {
					t.Errorf("AnonymizeRemote(%q) = %s, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("AnonymizeRemote(%q) = nil, want %s", tt.raw, tt.expected)
			}
			if string(*got) != tt.expected {
				t.Errorf("AnonymizeRemote(%q) = %s, want %s", tt.raw, *got, tt.expected)
			}
		})
	}
}
