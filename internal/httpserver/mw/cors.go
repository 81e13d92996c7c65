package mw

import (
	"fmt"
	"net/http"

	"github.com/jub0bs/cors"

	"github.com/mathswe/cookie-consent/internal/domain"
	"github.com/mathswe/cookie-consent/internal/logger"
)

// preflightMaxAge is one day.
const preflightMaxAge = 86400

// CORSOrigins lists the origin patterns accepted by preflight: every approved
// domain and any of its subdomains over HTTPS.
func CORSOrigins() []string {
	origins := make([]string, 0, 2*len(domain.Domains()))
	for _, d := range domain.Domains() {
		origins = append(origins, "https://"+d.Name(), "https://*."+d.Name())
	}
	return origins
}

// CORS answers preflight requests for the consent endpoint. Only POST with a
// JSON body is allowed.
func CORS(log logger.Logger) (func(http.Handler) http.Handler, error) {
	m, err := cors.NewMiddleware(cors.Config{
		Origins:         CORSOrigins(),
		Methods:         []string{http.MethodPost},
		RequestHeaders:  []string{"Content-Type"},
		MaxAgeInSeconds: preflightMaxAge,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cors config: %w", err)
	}

	log.Debugf("CORS: preflight enabled for %v", CORSOrigins())
	return m.Wrap, nil
}
