// Package geo reads the visitor location the edge proxy attaches to each request.
package geo

import (
	"net/http"
	"strings"

	"github.com/mathswe/cookie-consent/internal/domain"
	"github.com/mathswe/cookie-consent/internal/logger"
)

// Cloudflare visitor location headers.
const (
	HeaderTimeZone   = "cf-timezone"
	HeaderCountry    = "cf-ipcountry"
	HeaderCity       = "cf-ipcity"
	HeaderContinent  = "cf-ipcontinent"
	HeaderLatitude   = "cf-iplatitude"
	HeaderLongitude  = "cf-iplongitude"
	HeaderPostalCode = "cf-postal-code"
	HeaderMetroCode  = "cf-metro-code"
	HeaderRegion     = "cf-region"
	HeaderRegionCode = "cf-region-code"
	HeaderRay        = "cf-ray"
)

// Resolver produces the geolocation for a request.
type Resolver interface {
	Resolve(r *http.Request) domain.Geolocation
}

// HeaderResolver trusts the proxy headers as-is.
type HeaderResolver struct {
	log logger.Logger
}

func NewHeaderResolver(log logger.Logger) *HeaderResolver {
	return &HeaderResolver{log: log}
}

// Resolve never fails. A missing or unknown time zone becomes UTC.
func (h *HeaderResolver) Resolve(r *http.Request) domain.Geolocation {
	tz, err := domain.ParseTimeZone(header(r, HeaderTimeZone))
	if err != nil {
		h.log.Debug("no usable time zone header, using UTC", logger.Error(err))
		tz = domain.UTC
	}

	return domain.Geolocation{
		TimeZone:   tz,
		Colo:       colo(header(r, HeaderRay)),
		Country:    optional(r, HeaderCountry),
		City:       optional(r, HeaderCity),
		Continent:  optional(r, HeaderContinent),
		Latitude:   optional(r, HeaderLatitude),
		Longitude:  optional(r, HeaderLongitude),
		PostalCode: optional(r, HeaderPostalCode),
		MetroCode:  optional(r, HeaderMetroCode),
		Region:     optional(r, HeaderRegion),
		RegionCode: optional(r, HeaderRegionCode),
	}
}

func header(r *http.Request, name string) string {
	return strings.TrimSpace(r.Header.Get(name))
}

func optional(r *http.Request, name string) *string {
	v := header(r, name)
	if v == "" {
		return nil
	}
	return &v
}

// colo extracts the data center code from a ray id like "8a1b2c3d4e5f6789-SJC".
func colo(ray string) *string {
	i := strings.LastIndexByte(ray, '-')
	if i < 0 || i == len(ray)-1 {
		return nil
	}
	c := ray[i+1:]
	return &c
}
