package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mathswe/cookie-consent/internal/domain"
	"github.com/mathswe/cookie-consent/internal/httpserver/deps"
	"github.com/mathswe/cookie-consent/internal/logger"
	"github.com/mathswe/cookie-consent/internal/metrics"
	"github.com/mathswe/cookie-consent/internal/utils"
)

const (
	msgInvalidBody  = "Invalid JSON body: "
	msgStoreFailure = "Fail to store cookie consent"
	msgEncodeFailed = "Fail to encode cookie consent"

	// corsMaxAge is one day, in seconds.
	corsMaxAge = "86400"
)

// Consent accepts a cookie consent submission, stores it and returns the
// stored record.
func Consent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		originHeader := r.Header.Get("Origin")

		effective, err := domain.ResolveOrigin(originHeader, d.LocalMode)
		if err != nil {
			d.Metrics.RecordOriginDecision(metrics.OriginRejected)
			d.Metrics.RecordSubmission("none", metrics.OutcomeOriginRejected)
			d.Logger.Debug("consent rejected",
				logger.String("origin", originHeader),
				logger.Error(err))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if effective.Bypassed() {
			d.Metrics.RecordOriginDecision(metrics.OriginBypassed)
		} else {
			d.Metrics.RecordOriginDecision(metrics.OriginApproved)
		}
		domainLabel := effective.Domain.String()

		pref, err := readPref(w, r, d.MaxBodyBytes)
		if err != nil {
			d.Metrics.RecordSubmission(domainLabel, metrics.OutcomeMalformedBody)
			d.Logger.Debug("malformed consent body", logger.Error(err))
			plainText(w, http.StatusBadRequest, msgInvalidBody+err.Error())
			return
		}

		record := domain.NewConsentRecord(
			effective.Domain,
			pref,
			d.Geo.Resolve(r),
			domain.AnonymizeRemote(utils.SubmitterIP(r, d.TrustProxy)),
			r.UserAgent(),
		)

		id, value := record.ToStorage()
		start := time.Now()
		err = d.Store.SaveConsent(r.Context(), id, value)
		d.Metrics.ObserveStoreWrite(time.Since(start), err)
		if err != nil {
			d.Metrics.RecordSubmission(domainLabel, metrics.OutcomeStorageFailure)
			d.Logger.Error("failed to store cookie consent",
				logger.String("id", id),
				logger.String("domain", domainLabel),
				logger.Error(err))
			plainText(w, http.StatusInternalServerError, msgStoreFailure)
			return
		}

		body, err := record.JSON()
		if err != nil {
			d.Logger.Error("failed to encode cookie consent",
				logger.String("id", id),
				logger.Error(err))
			plainText(w, http.StatusInternalServerError, msgEncodeFailed)
			return
		}

		d.Metrics.RecordSubmission(domainLabel, metrics.OutcomeStored)

		if effective.Origin != nil {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", effective.Origin.String())
			h.Set("Access-Control-Allow-Methods", http.MethodPost)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			h.Add("Vary", "Origin")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// readPref reads at most limit bytes of body and decodes the preference.
func readPref(w http.ResponseWriter, r *http.Request, limit int64) (domain.Pref, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Pref{}, errors.New("body exceeds the size limit")
		}
		return domain.Pref{}, err
	}
	return domain.ParsePref(body)
}

func plainText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}

// Preflight answers a bare OPTIONS request that is not a CORS preflight.
// Real preflights are answered by the CORS middleware before reaching it.
func Preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "OPTIONS, POST")
	w.WriteHeader(http.StatusNoContent)
}
