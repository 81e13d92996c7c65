package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Pref holds the cookie categories a user consented to.
type Pref struct {
	Essential  bool `json:"essential"`
	Functional bool `json:"functional"`
	Analytics  bool `json:"analytics"`
	Targeting  bool `json:"targeting"`
}

// ParsePref decodes a client submission. Every flag is required.
func ParsePref(body []byte) (Pref, error) {
	var pref Pref
	if err := json.Unmarshal(body, &pref); err != nil {
		return Pref{}, err
	}
	return pref, nil
}

// UnmarshalJSON rejects objects missing any of the four flags; there are no
// defaults. Unknown fields are ignored.
func (p *Pref) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("expected an object with fields essential, functional, analytics, targeting")
	}

	var raw struct {
		Essential  *bool `json:"essential"`
		Functional *bool `json:"functional"`
		Analytics  *bool `json:"analytics"`
		Targeting  *bool `json:"targeting"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	required := []struct {
		name  string
		value *bool
	}{
		{"essential", raw.Essential},
		{"functional", raw.Functional},
		{"analytics", raw.Analytics},
		{"targeting", raw.Targeting},
	}
	for _, field := range required {
		if field.value == nil {
			return fmt.Errorf("missing field %q", field.name)
		}
	}

	*p = Pref{
		Essential:  *raw.Essential,
		Functional: *raw.Functional,
		Analytics:  *raw.Analytics,
		Targeting:  *raw.Targeting,
	}
	return nil
}
