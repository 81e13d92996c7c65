package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Sources of identity and time for new records. Tests pin them.
var (
	newRecordID = uuid.NewString
	now         = time.Now
)

// ConsentRecord is one recorded cookie consent decision.
//
// Records are append-only: a record is built once per accepted request,
// written under its ID, and never edited afterwards. It is passed by value.
type ConsentRecord struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is a random UUID. It is also the storage key.
	ID string `json:"id"`

	// ─────────────────────────────
	// Decision
	// ─────────────────────────────

	Domain Domain `json:"domain"`
	Pref   Pref   `json:"pref"`

	// CreatedAt is the construction time, in UTC.
	CreatedAt time.Time `json:"created_at"`

	// ─────────────────────────────
	// Provenance
	// ─────────────────────────────

	Geolocation Geolocation `json:"geolocation"`

	// AnonymousIP is nil when the client address was missing or not IPv4.
	AnonymousIP *AnonymizedAddress `json:"anonymous_ip"`

	UserAgent string `json:"user_agent"`
}

// StoredConsent is the value written to the key-value store: the record
// without its ID, which is the key.
type StoredConsent struct {
	Domain      Domain             `json:"domain"`
	Pref        Pref               `json:"pref"`
	CreatedAt   time.Time          `json:"created_at"`
	Geolocation Geolocation        `json:"geolocation"`
	AnonymousIP *AnonymizedAddress `json:"anonymous_ip"`
	UserAgent   string             `json:"user_agent"`
}

// NewConsentRecord builds a record with a fresh ID and the current time.
func NewConsentRecord(
	domain Domain,
	pref Pref,
	geolocation Geolocation,
	anonymousIP *AnonymizedAddress,
	userAgent string,
) ConsentRecord {
	return ConsentRecord{
		ID:          newRecordID(),
		Domain:      domain,
		Pref:        pref,
		CreatedAt:   now().UTC(),
		Geolocation: geolocation,
		AnonymousIP: anonymousIP,
		UserAgent:   userAgent,
	}
}

// ToStorage returns the key/value pair to persist.
func (c ConsentRecord) ToStorage() (string, StoredConsent) {
	return c.ID, StoredConsent{
		Domain:      c.Domain,
		Pref:        c.Pref,
		CreatedAt:   c.CreatedAt,
		Geolocation: c.Geolocation,
		AnonymousIP: c.AnonymousIP,
		UserAgent:   c.UserAgent,
	}
}

// JSON returns the response body for the record.
func (c ConsentRecord) JSON() ([]byte, error) {
	return json.Marshal(c)
}
