package httpapi

import (
	"context"
	"net/http"
	"time"

	"orgdesk.org/internal/auth"
	"orgdesk.org/internal/obs"
	"orgdesk.org/internal/org"
)

// Pinger is implemented by store backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyProbe checks the active backend for the readiness endpoint.
type ReadyProbe struct {
	Store Pinger
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Store == nil {
		return nil
	}
	return rp.Store.Ping(ctx)
}

// API is the HTTP layer. All dependencies are injected; there is no ambient
// global state.
type API struct {
	mux         *http.ServeMux
	readyProbe  ReadyProbe
	version     string
	accounts    *auth.Accounts
	issuer      *auth.Issuer
	revocations auth.RevocationLedger
	orgs        *org.Service

	maxBodyBytes int64
	rateBurst    int
	ratePerSec   int
}

func New(rp ReadyProbe, version string, accounts *auth.Accounts, issuer *auth.Issuer, revocations auth.RevocationLedger, orgs *org.Service) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		accounts:     accounts,
		issuer:       issuer,
		revocations:  revocations,
		orgs:         orgs,
		maxBodyBytes: 1 << 20,
		rateBurst:    50,
		ratePerSec:   25,
	}

	// session endpoints
	a.mux.HandleFunc("/signup", a.handleSignup)
	a.mux.HandleFunc("/signin", a.handleSignin)
	a.mux.HandleFunc("/refresh-token", a.handleRefreshToken)
	a.mux.HandleFunc("/revoke-refresh-token", a.handleRevokeRefreshToken)

	// organizations
	a.mux.HandleFunc("/organization", a.handleOrganizationCollection)
	a.mux.HandleFunc("/organization/", a.handleOrganizationResource)

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "orgdesk-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "orgdesk-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
