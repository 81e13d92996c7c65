package deps

import (
	"context"
	"time"

	"github.com/mathswe/cookie-consent/internal/domain"
	"github.com/mathswe/cookie-consent/internal/geo"
	"github.com/mathswe/cookie-consent/internal/logger"
	"github.com/mathswe/cookie-consent/internal/metrics"
)

// ConsentStore persists consent records. Implemented by the redis and
// postgres stores.
type ConsentStore interface {
	SaveConsent(ctx context.Context, id string, value domain.StoredConsent) error
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedHosts []string // Host headers allowed to reach the consent endpoint
	AllowedCIDRS []string // IPs allowed to access readyz/metrics endpoints
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)

	LocalMode    bool             // accept requests without an approved Origin
	MaxBodyBytes int64            // consent body limit
	Store        ConsentStore     // consent persistence
	StoreBackend string           // "redis" | "postgres", reported by readyz
	Geo          geo.Resolver     // request geolocation
	Metrics      *metrics.Metrics // Prometheus collectors
}
