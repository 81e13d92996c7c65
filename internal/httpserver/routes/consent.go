package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mathswe/cookie-consent/internal/httpserver/deps"
	"github.com/mathswe/cookie-consent/internal/httpserver/handlers"
	"github.com/mathswe/cookie-consent/internal/httpserver/mw"
	"github.com/mathswe/cookie-consent/internal/logger"
)

func init() { Register(registerConsent) }

func registerConsent(r chi.Router, d deps.Deps) {
	preflight, err := mw.CORS(d.Logger)
	if err != nil {
		d.Logger.Fatal("❌ FATAL: cannot build CORS preflight", logger.Error(err))
	}

	host := mw.EnforceHost(d.AllowedHosts, d.Logger)
	r.With(host).Post("/", handlers.Consent(d))
	r.With(host, preflight).Options("/", http.HandlerFunc(handlers.Preflight))
}
