package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rental-tracker-backend/internal/domain"
)

// RentalHandler serves rental bookings and their lifecycle views.
type RentalHandler struct {
	rentals RentalService
}

func NewRentalHandler(rentals RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(rentals))
}

func (h *RentalHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListActive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(rentals))
}

// ListOverdue returns active rentals past their end date, most overdue first.
func (h *RentalHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.ListOverdue(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(rentals))
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rental, err := h.rentals.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft domain.RentalDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentals.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Update(w http.ResponseWriter, r *http.Request) {
	var draft domain.RentalDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.rentals.Update(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.rentals.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
