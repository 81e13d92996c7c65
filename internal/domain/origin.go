package domain

import "strings"

const httpsScheme = "https://"

// Origin is a validated client origin: HTTPS, no port, hostname under one of
// the approved domains. Subdomain is empty when the hostname is the bare domain.
// Examples: https://mathswe.com, https://staging.mathswe.com
type Origin struct {
	Domain    Domain
	Subdomain string
}

// ParseOrigin parses the value of an Origin header.
// Nested subdomains are accepted ("nested.staging.mathswe.com").
// The match is anchored on a label boundary, so "evilmathswe.com" is not a
// subdomain of "mathswe.com".
func ParseOrigin(raw string) (Origin, bool) {
	hostname, ok := strings.CutPrefix(raw, httpsScheme)
	if !ok || hostname == "" {
		return Origin{}, false
	}

	for _, d := range Domains() {
		name := d.Name()

		if hostname == name {
			return Origin{Domain: d}, true
		}

		subdomain, found := strings.CutSuffix(hostname, "."+name)
		if !found {
			continue
		}
		if !validSubdomain(subdomain) {
			return Origin{}, false
		}
		return Origin{Domain: d, Subdomain: subdomain}, true
	}

	return Origin{}, false
}

// String renders the origin back to its header form.
func (o Origin) String() string {
	if o.Subdomain == "" {
		return httpsScheme + o.Domain.Name()
	}
	return httpsScheme + o.Subdomain + "." + o.Domain.Name()
}

// validSubdomain checks a dot-separated sequence of DNS labels (letters,
// digits, hyphens; no leading or trailing hyphen).
func validSubdomain(s string) bool {
	if s == "" {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
