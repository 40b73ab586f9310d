package httpapi

import (
	"context"
	"net/http"
	"time"

	"parlor.chat/internal/admin"
	"parlor.chat/internal/content"
	"parlor.chat/internal/guard"
	"parlor.chat/internal/obs"
	"parlor.chat/internal/stream"
)

// ReadyProbe is the readiness check exposed on /readyz (e.g. a store ping).
type ReadyProbe struct {
	Ping func(ctx context.Context) error
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.Ping == nil {
		return nil
	}
	return rp.Ping(ctx)
}

// API is the HTTP layer over the admin service.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	admin    *admin.Service
	renderer *content.Renderer
	events   *stream.Stream
	sessions guard.SessionStore

	// Token-bucket limits for all traffic, per client IP.
	rateBurst  int
	ratePerSec int

	// Fixed-window budget for mutating admin endpoints, per client IP.
	writeGuard *guard.FixedWindow
}

// New wires the HTTP API. svc may be backed by nil dependencies; requests
// then fail closed with 503 instead of the process refusing to start.
func New(rp ReadyProbe, version string, svc *admin.Service, events *stream.Stream) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,
		admin:      svc,
		renderer:   content.NewRenderer(),
		events:     events,
		sessions:   guard.NewMemorySessionStore(12 * time.Hour),
		rateBurst:  20,
		ratePerSec: 10,
		writeGuard: guard.NewFixedWindow(guard.NewMemoryCounterStore(), 30, time.Minute),
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	a.mux.HandleFunc("/v1/admin/verify", a.handleVerifyAdmin)
	a.mux.HandleFunc("/v1/admin/ban-user", a.handleBanUser)
	a.mux.HandleFunc("/v1/admin/ban-ip", a.handleBanIP)
	a.mux.HandleFunc("/v1/admin/users", a.handleListUsers)
	a.mux.HandleFunc("/v1/admin/bans", a.handleListBans)
	a.mux.HandleFunc("/v1/admin/licenses", a.handleCreateLicense)
	a.mux.HandleFunc("/v1/admin/events", a.handleEvents)

	a.mux.HandleFunc("/v1/licenses/redeem", a.handleRedeemLicense)
	a.mux.HandleFunc("/v1/content/render", a.handleRenderContent)
	a.mux.HandleFunc("/v1/csrf", a.handleCSRFToken)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = LoggingJSON(h)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}
