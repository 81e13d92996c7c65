package domain

import (
	"fmt"
	"time"
	_ "time/tzdata" // tz names are validated on every host, including scratch images
)

// TimeZone is an IANA time zone name, e.g. "America/Tegucigalpa".
type TimeZone string

// UTC is used when the platform does not provide a time zone.
const UTC TimeZone = "UTC"

// ParseTimeZone validates name against the tz database.
func ParseTimeZone(name string) (TimeZone, error) {
	if name == "" || name == "Local" {
		return "", fmt.Errorf("invalid time zone %q", name)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return TimeZone(name), nil
}

func (tz *TimeZone) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeZone(string(text))
	if err != nil {
		return err
	}
	*tz = parsed
	return nil
}

// Geolocation is the request location resolved by the hosting platform.
// It is stored as-is in the consent record.
type Geolocation struct {
	TimeZone   TimeZone `json:"time_zone"`
	Colo       *string  `json:"colo"`
	Country    *string  `json:"country"`
	City       *string  `json:"city"`
	Continent  *string  `json:"continent"`
	Latitude   *string  `json:"latitude"`
	Longitude  *string  `json:"longitude"`
	PostalCode *string  `json:"postal_code"`
	MetroCode  *string  `json:"metro_code"`
	Region     *string  `json:"region"`
	RegionCode *string  `json:"region_code"`
}

// EmptyGeolocation returns a geolocation with only the time zone set.
func EmptyGeolocation(tz TimeZone) Geolocation {
	return Geolocation{TimeZone: tz}
}
