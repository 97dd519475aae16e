package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/garage-invoices/internal/httpx"
	"github.com/diewo77/garage-invoices/internal/store"
)

// InvoiceHandler maps the invoice CRUD surface onto the store.
type InvoiceHandler struct {
	Store *store.InvoiceStore
	Log   *logrus.Logger
}

func NewInvoiceHandler(st *store.InvoiceStore, log *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{Store: st, Log: log}
}

func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Create: POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv := p.toModel()
	id, err := h.Store.Create(&inv)
	if err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{verr.Field: verr.Reason})
			return
		}
		h.Log.WithError(err).Error("failed to create invoice")
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

// Update: PUT /api/invoices/{id} — full replace of scalars and line set.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	err := h.Store.Update(id, p.toModel())
	if err != nil {
		var verr *store.ValidationError
		switch {
		case errors.As(err, &verr):
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{verr.Field: verr.Reason})
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		default:
			h.Log.WithError(err).WithField("id", id).Error("failed to update invoice")
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

// Delete: DELETE /api/invoices/{id} — 204 whether or not a row was removed.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Store.Delete(id); err != nil {
		h.Log.WithError(err).WithField("id", id).Error("failed to delete invoice")
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_invoice", nil)
		return
	}
	httpx.NoContent(w)
}

// List: GET /api/invoices — newest first, lines embedded.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.List()
	if err != nil {
		h.Log.WithError(err).Error("failed to list invoices")
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_fetch_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, invs)
}
