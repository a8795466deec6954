package web

import (
	"errors"
	"net/http"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/core"

	"github.com/go-chi/chi/v5"
)

// respondPartial writes result with 201 or 200 unless err is a persistence failure,
// in which case the in-memory result is still returned alongside a 503 status.
func respondPartial(w http.ResponseWriter, r *http.Request, status int, result any, err error) {
	if err == nil {
		writeJSONStatus(w, status, result)
		return
	}
	var pe *core.PersistenceError
	if errors.As(err, &pe) && result != nil {
		type partial struct {
			Result    any    `json:"result"`
			Error     string `json:"error"`
			Code      string `json:"code"`
			RequestID string `json:"request_id,omitempty"`
		}
		writeJSONStatus(w, http.StatusServiceUnavailable, partial{
			Result:    result,
			Error:     err.Error(),
			Code:      "PERSISTENCE_ERROR",
			RequestID: requestIDFromContext(r.Context()),
		})
		return
	}
	writeServiceError(w, r, err)
}

func (h *Handler) previewBill(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.PreviewBill(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req app.CreateBillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateBill(r.Context(), req)
	if res == nil {
		writeServiceError(w, r, err)
		return
	}
	respondPartial(w, r, http.StatusCreated, res, err)
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.ListBills(r.Context(), app.ListBillsRequest{CustomerID: q.Get("customer"), Type: q.Get("type")})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetBill(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// recordPayment handles POST /api/customers/{id}/payments.
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req app.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CustomerID = chi.URLParam(r, "id")
	res, err := h.svc.RecordPayment(r.Context(), req)
	if res == nil {
		writeServiceError(w, r, err)
		return
	}
	respondPartial(w, r, http.StatusOK, res, err)
}

// setRevenue handles PUT /api/revenue.
func (h *Handler) setRevenue(w http.ResponseWriter, r *http.Request) {
	var req app.SetRevenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SetRevenue(r.Context(), req)
	if res == nil {
		writeServiceError(w, r, err)
		return
	}
	respondPartial(w, r, http.StatusOK, res, err)
}

// ── AI ───────────────────────────────────────────────────────────────────────

func (h *Handler) interpretDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.InterpretDraft(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) confirmDraft(w http.ResponseWriter, r *http.Request) {
	var proposal core.DraftProposal
	if !decodeJSON(w, r, &proposal) {
		return
	}
	res, err := h.svc.ConfirmDraft(r.Context(), proposal)
	if res == nil {
		writeServiceError(w, r, err)
		return
	}
	respondPartial(w, r, http.StatusCreated, res, err)
}
