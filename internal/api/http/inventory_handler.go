package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rental-tracker-backend/internal/domain"
)

// InventoryHandler serves products, categories and the low-stock view.
type InventoryHandler struct {
	inventory InventoryService
}

func NewInventoryHandler(inventory InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(items))
}

func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListLowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(items))
}

func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var draft domain.ProductDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.inventory.CreateProduct(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *InventoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var draft domain.ProductDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.inventory.UpdateProduct(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *InventoryHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.inventory.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(categories))
}

func (h *InventoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.inventory.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var draft domain.CategoryDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.inventory.CreateCategory(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *InventoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var draft domain.CategoryDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.inventory.UpdateCategory(r.Context(), mux.Vars(r)["id"], draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory detaches the category's products rather than refusing.
func (h *InventoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
