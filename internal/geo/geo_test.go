package geo

import (
	"net/http/httptest"
	"testing"

	"github.com/mathswe/cookie-consent/internal/domain"
	"github.com/mathswe/cookie-consent/internal/logger"
)

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestResolveAllHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("CF-Timezone", "America/Tegucigalpa")
	r.Header.Set("CF-IPCountry", "HN")
	r.Header.Set("CF-IPCity", "Tegucigalpa")
	r.Header.Set("CF-IPContinent", "NA")
	r.Header.Set("CF-IPLatitude", "14.08180")
	r.Header.Set("CF-IPLongitude", "-87.20681")
	r.Header.Set("CF-Postal-Code", "11101")
	r.Header.Set("CF-Metro-Code", "0")
	r.Header.Set("CF-Region", "Francisco Morazan")
	r.Header.Set("CF-Region-Code", "FM")
	r.Header.Set("CF-Ray", "8a1b2c3d4e5f6789-TGU")

	got := NewHeaderResolver(logger.NewNop()).Resolve(r)

	if got.TimeZone != "America/Tegucigalpa" {
		t.Errorf("TimeZone = %s", got.TimeZone)
	}
	checks := map[string]struct {
		got  *string
		want string
	}{
		"colo":        {got.Colo, "TGU"},
		"country":     {got.Country, "HN"},
		"city":        {got.City, "Tegucigalpa"},
		"continent":   {got.Continent, "NA"},
		"latitude":    {got.Latitude, "14.08180"},
		"longitude":   {got.Longitude, "-87.20681"},
		"postal_code": {got.PostalCode, "11101"},
		"metro_code":  {got.MetroCode, "0"},
		"region":      {got.Region, "Francisco Morazan"},
		"region_code": {got.RegionCode, "FM"},
	}
	for name, c := range checks {
		if deref(c.got) != c.want {
			t.Errorf("%s = %s, want %s", name, deref(c.got), c.want)
		}
	}
}

func TestResolveNoHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)

	got := NewHeaderResolver(logger.NewNop()).Resolve(r)

	if got != domain.EmptyGeolocation(domain.UTC) {
		t.Errorf("Resolve() = %+v, want an empty UTC geolocation", got)
	}
}

func TestResolveTimeZoneFallback(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  domain.TimeZone
	}{
		{name: "unknown", value: "Mars/Olympus_Mons", want: domain.UTC},
		{name: "blank", value: "   ", want: domain.UTC},
		{name: "local is not a zone", value: "Local", want: domain.UTC},
		{name: "valid", value: "Europe/Berlin", want: "Europe/Berlin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.Header.Set(HeaderTimeZone, tt.value)

			got := NewHeaderResolver(logger.NewNop()).Resolve(r)
			if got.TimeZone != tt.want {
				t.Errorf("TimeZone = %s, want %s", got.TimeZone, tt.want)
			}
		})
	}
}

func TestColo(t *testing.T) {
	tests := []struct {
		ray  string
		want string
	}{
		{"8a1b2c3d4e5f6789-SJC", "SJC"},
		{"8a1b2c3d4e5f6789", "<nil>"},
		{"8a1b2c3d4e5f6789-", "<nil>"},
		{"", "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.ray, func(t *testing.T) {
			if got := deref(colo(tt.ray)); got != tt.want {
				t.Errorf("colo(%q) = %s, want %s", tt.ray, got, tt.want)
			}
		})
	}
}

func TestEmptyHeaderIsAbsent(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set(HeaderCountry, "")
	r.Header.Set(HeaderCity, "  ")

	got := NewHeaderResolver(logger.NewNop()).Resolve(r)
	if got.Country != nil || got.City != nil {
		t.Errorf("Country = %s, City = %s, want both absent", deref(got.Country), deref(got.City))
	}
}
