package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func anonPtr(s string) *AnonymizedAddress {
	a := AnonymizedAddress(s)
	return &a
}

// pinRecordSources fixes the id and clock used by NewConsentRecord.
func pinRecordSources(t *testing.T, id string, at time.Time) {
	t.Helper()
	prevID, prevNow := newRecordID, now
	newRecordID = func() string { return id }
	now = func() time.Time { return at }
	t.Cleanup(func() {
		newRecordID, now = prevID, prevNow
	})
}

func fullGeolocation() Geolocation {
	return Geolocation{
		TimeZone:   "America/Tegucigalpa",
		Colo:       strPtr("TGU"),
		Country:    strPtr("HN"),
		City:       strPtr("Tegucigalpa"),
		Continent:  strPtr("NA"),
		Latitude:   strPtr("14.08180"),
		Longitude:  strPtr("-87.20681"),
		PostalCode: strPtr("11101"),
		MetroCode:  strPtr("0"),
		Region:     strPtr("Francisco Morazan"),
		RegionCode: strPtr("FM"),
	}
}

func recordsEqual(a, b ConsentRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	a.CreatedAt, b.CreatedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(a, b)
}

func TestNewConsentRecord(t *testing.T) {
	at := time.Date(2024, 3, 10, 17, 49, 1, 613437000, time.FixedZone("CST", -6*3600))
	pinRecordSources(t, "abc", at)

	pref := Pref{Essential: true, Analytics: true}
	record := NewConsentRecord(MathSoftware, pref, EmptyGeolocation(UTC), anonPtr("1.1.1.0"), "curl/8.5")

	if record.ID != "abc" {
		t.Errorf("ID = %s, want abc", record.ID)
	}
	if record.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", record.CreatedAt.Location())
	}
	if !record.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", record.CreatedAt, at)
	}
	if record.Domain != MathSoftware || record.Pref != pref || record.UserAgent != "curl/8.5" {
		t.Errorf("NewConsentRecord() = %+v, fields not copied", record)
	}
}

func TestNewConsentRecordGeneratesDistinctIDs(t *testing.T) {
	seen := make(map[string]bool, 100)
	for i := 0; i < 100; i++ {
		record := NewConsentRecord(MathSweCom, Pref{Essential: true}, EmptyGeolocation(UTC), nil, "")
		if record.ID == "" {
			t.Fatal("NewConsentRecord() generated an empty id")
		}
		if seen[record.ID] {
			t.Fatalf("NewConsentRecord() generated duplicate id %s", record.ID)
		}
		seen[record.ID] = true
	}
}

func TestConsentRecordJSONRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 3, 10, 17, 49, 1, 613437000, time.UTC)

	tests := []struct {
		name   string
		record ConsentRecord
	}{
		{
			name: "all fields",
			record: ConsentRecord{
				ID:          "V1StGXR8_Z5jdHi6B-myT",
				Domain:      MathSweCom,
				Pref:        Pref{Essential: true, Functional: true, Analytics: true, Targeting: true},
				CreatedAt:   createdAt,
				Geolocation: fullGeolocation(),
				AnonymousIP: anonPtr("123.213.231.0"),
				UserAgent:   "Mozilla/5.0 (X11; Linux x86_64)",
			},
		},
		{
			name: "optional fields absent",
			record: ConsentRecord{
				ID:          "abc",
				Domain:      MathSoftwareEngineer,
				Pref:        Pref{Essential: true},
				CreatedAt:   createdAt,
				Geolocation: EmptyGeolocation(UTC),
			},
		},
		{
			name: "ip present, geolocation empty",
			record: ConsentRecord{
				ID:          "xyz",
				Domain:      MathSoftware,
				Pref:        Pref{Essential: true, Targeting: true},
				CreatedAt:   createdAt,
				Geolocation: EmptyGeolocation("Europe/Berlin"),
				AnonymousIP: anonPtr("1.1.1.0"),
				UserAgent:   "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.record.JSON()
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}

			var decoded ConsentRecord
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if !recordsEqual(decoded, tt.record) {
				t.Errorf("round trip = %+v, want %+v", decoded, tt.record)
			}
		})
	}
}

func TestConsentRecordJSONShape(t *testing.T) {
	record := ConsentRecord{
		ID:          "abc",
		Domain:      MathSweCom,
		Pref:        Pref{Essential: true, Analytics: true},
		CreatedAt:   time.Date(2024, 3, 10, 17, 49, 1, 0, time.UTC),
		Geolocation: EmptyGeolocation(UTC),
	}

	data, err := record.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "domain", "pref", "created_at", "geolocation", "anonymous_ip", "user_agent"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("JSON missing field %q: %s", key, data)
		}
	}
	if fields["domain"] != "MathSweCom" {
		t.Errorf("domain = %v, want MathSweCom", fields["domain"])
	}
	if fields["created_at"] != "2024-03-10T17:49:01Z" {
		t.Errorf("created_at = %v, want 2024-03-10T17:49:01Z", fields["created_at"])
	}
	if fields["anonymous_ip"] != nil {
		t.Errorf("anonymous_ip = %v, want null", fields["anonymous_ip"])
	}
}

func TestConsentRecordToStorage(t *testing.T) {
	record := ConsentRecord{
		ID:          "abc",
		Domain:      MathSoftware,
		Pref:        Pref{Essential: true, Functional: false, Analytics: true, Targeting: false},
		CreatedAt:   time.Date(2024, 3, 10, 17, 49, 1, 613437000, time.UTC),
		Geolocation: fullGeolocation(),
		AnonymousIP: anonPtr("240.80.150.0"),
		UserAgent:   "curl/8.5",
	}

	key, value := record.ToStorage()

	if key != record.ID {
		t.Errorf("key = %s, want %s", key, record.ID)
	}

	expected := StoredConsent{
		Domain:      record.Domain,
		Pref:        record.Pref,
		CreatedAt:   record.CreatedAt,
		Geolocation: record.Geolocation,
		AnonymousIP: record.AnonymousIP,
		UserAgent:   record.UserAgent,
	}
	if !reflect.DeepEqual(value, expected) {
		t.Errorf("value = %+v, want %+v", value, expected)
	}

	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if strings.Contains(string(data), `"id"`) {
		t.Errorf("stored value must not duplicate the key: %s", data)
	}
}

func TestDomainText(t *testing.T) {
	for _, d := range Domains() {
		text, err := d.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", d, err)
		}
		var decoded Domain
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", text, err)
		}
		if decoded != d {
			t.Errorf("UnmarshalText(%s) = %v, want %v", text, decoded, d)
		}
	}

	var d Domain
	if err := d.UnmarshalText([]byte("mathswe.com")); err == nil {
		t.Error("UnmarshalText() should reject a domain name, identifiers only")
	}
	if _, err := Domain(42).MarshalText(); err == nil {
		t.Error("MarshalText() should reject an unknown domain")
	}
}
