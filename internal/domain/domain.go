package domain

import "fmt"

// Domain is one of the registrable domains allowed to submit consents.
// Adding a property means adding a constant here and a case in Name and String.
type Domain int

const (
	MathSweCom Domain = iota
	MathSoftware
	MathSoftwareEngineer
)

// DefaultDomain is recorded when a request is accepted without an origin (local mode).
const DefaultDomain = MathSweCom

// Domains returns every approved domain in matching order.
func Domains() []Domain {
	return []Domain{MathSweCom, MathSoftware, MathSoftwareEngineer}
}

// Name returns the canonical domain name, e.g. "mathswe.com".
func (d Domain) Name() string {
	switch d {
	case MathSweCom:
		return "mathswe.com"
	case MathSoftware:
		return "math.software"
	case MathSoftwareEngineer:
		return "mathsoftware.engineer"
	default:
		return ""
	}
}

// String returns the identifier used on the wire, e.g. "MathSweCom".
func (d Domain) String() string {
	switch d {
	case MathSweCom:
		return "MathSweCom"
	case MathSoftware:
		return "MathSoftware"
	case MathSoftwareEngineer:
		return "MathSoftwareEngineer"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

func (d Domain) valid() bool {
	return d.Name() != ""
}

func (d Domain) MarshalText() ([]byte, error) {
	if !d.valid() {
		return nil, fmt.Errorf("unknown domain %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Domain) UnmarshalText(text []byte) error {
	s := string(text)
	for _, candidate := range Domains() {
		if candidate.String() == s {
			*d = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown domain %q", s)
}
