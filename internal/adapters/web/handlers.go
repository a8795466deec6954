package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"jewelry-ledger/internal/ai"
	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/observability"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	RateLimit      int // requests per minute per IP; 0 disables limiting
	Production     bool
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	secure bool
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &Handler{svc: svc, secure: opts.Production}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(opts.Logger))
	r.Use(Recoverer)
	r.Use(opts.Metrics.Middleware)
	r.Use(SecureHeaders(opts.Production))
	r.Use(CORS(opts.AllowedOrigins))
	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(opts.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, "too many requests", "RATE_LIMITED", http.StatusTooManyRequests)
			}),
		))
	}

	// ── Public ───────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Get("/api/schema", h.schema)
	r.Handle("/metrics", opts.Metrics.Handler())
	r.With(RequestBodyLimit(1<<16)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20))

		r.Get("/api/session", h.sessionStatus)
		r.Post("/api/session/save", h.sessionSave)

		r.Get("/api/items", h.listItems)
		r.Post("/api/items", h.addItem)
		r.Patch("/api/items/{id}", h.updateItem)
		r.Delete("/api/items/{id}", h.deleteItem)

		r.Get("/api/customers", h.listCustomers)
		r.Post("/api/customers", h.addCustomer)
		r.Patch("/api/customers/{id}", h.updateCustomer)
		r.Delete("/api/customers/{id}", h.deleteCustomer)
		r.Get("/api/customers/{id}/statement", h.customerStatement)
		r.Post("/api/customers/{id}/payments", h.recordPayment)

		r.Post("/api/bills/preview", h.previewBill)
		r.Post("/api/bills", h.createBill)
		r.Get("/api/bills", h.listBills)
		r.Get("/api/bills/{id}", h.getBill)

		r.Put("/api/revenue", h.setRevenue)

		r.Get("/api/reports/summary", h.summary)
		r.Get("/api/reports/monthly", h.monthlyRevenue)
		r.Get("/api/reports/receivables", h.receivables)
		r.Get("/api/reports/low-stock", h.lowStock)
		r.Get("/api/reports/consistency", h.consistency)

		r.Post("/api/ai/draft", h.interpretDraft)
		r.Post("/api/ai/draft/confirm", h.confirmDraft)
	})

	h.router = r
	return r
}

// health reports liveness and the store lifecycle state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Store  string `json:"store"`
	}
	writeJSON(w, response{Status: "ok", Store: h.svc.Status(r.Context()).State})
}

// schema serves the JSON schema the AI draft endpoint answers with.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	s, err := ai.DraftResponseSchema()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
