package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mathswe/cookie-consent/internal/httpserver/deps"
	"github.com/mathswe/cookie-consent/internal/logger"
)

const readyzPingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Error string `json:"error,omitempty"`
}

// Readyz reports whether the consent store answers a ping.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		resp := readyzResponse{Ready: true, Store: d.StoreBackend}
		status := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), readyzPingTimeout)
		defer cancel()

		if d.Store == nil {
			resp.Ready, resp.Error = false, "store not initialized"
			status = http.StatusServiceUnavailable
		} else if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed",
				logger.String("store", d.StoreBackend),
				logger.Error(err))
			resp.Ready, resp.Error = false, "store unavailable"
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
