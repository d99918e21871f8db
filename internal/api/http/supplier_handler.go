package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rental-tracker-backend/internal/domain"
)

type SupplierHandler struct {
	suppliers SupplierService
}

func NewSupplierHandler(suppliers SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(suppliers))
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.suppliers.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft domain.SupplierDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	supplier, err := h.suppliers.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var draft domain.SupplierDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	supplier, err := h.suppliers.Update(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

// Delete refuses suppliers that still have pending or active rentals (409).
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.suppliers.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
