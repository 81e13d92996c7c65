package domain

import "errors"

// ErrOriginRejected is returned when a request has no approved origin and
// local mode is off.
var ErrOriginRejected = errors.New("origin rejected")

// EffectiveOrigin is the outcome of the origin policy for one request.
type EffectiveOrigin struct {
	// Domain is recorded in the consent.
	Domain Domain

	// Origin is echoed back in CORS headers. It is nil when the request was
	// accepted through the local mode bypass.
	Origin *Origin
}

// ResolveOrigin applies the origin allow-list to the raw Origin header value
// ("" when absent). Without an approved origin, the request is accepted only
// in local mode, under DefaultDomain.
func ResolveOrigin(header string, localMode bool) (EffectiveOrigin, error) {
	if origin, ok := ParseOrigin(header); ok {
		return EffectiveOrigin{Domain: origin.Domain, Origin: &origin}, nil
	}
	if localMode {
		return EffectiveOrigin{Domain: DefaultDomain}, nil
	}
	return EffectiveOrigin{}, ErrOriginRejected
}

// Bypassed reports whether the origin was accepted through local mode.
func (e EffectiveOrigin) Bypassed() bool {
	return e.Origin == nil
}
