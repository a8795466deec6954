package web

import (
	"net/http"
	"time"
)

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetSummary(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// monthlyRevenue handles GET /api/reports/monthly?year=2024 (defaults to the current year).
func (h *Handler) monthlyRevenue(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", time.Now().Year())
	if err != nil {
		writeError(w, r, "year must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	res, err := h.svc.GetMonthlyRevenue(r.Context(), year)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// receivables handles GET /api/reports/receivables?as_of=2024-06-30.
func (h *Handler) receivables(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, r, "as_of must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		// Include every bill dated on the as-of day.
		asOf = t.Add(24*time.Hour - time.Nanosecond)
	}
	res, err := h.svc.GetReceivables(r.Context(), asOf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt(r, "threshold", 1)
	if err != nil {
		writeError(w, r, "threshold must be an integer", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	res, err := h.svc.GetLowStock(r.Context(), threshold)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) consistency(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.VerifyConsistency(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}
