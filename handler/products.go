package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stevemurr/simple-shop-server/schema"
	"github.com/stevemurr/simple-shop-server/store"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.GetCollection(store.Products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.URL.Query().Get("name"))
	category := strings.ToLower(r.URL.Query().Get("category"))

	products, err := h.store.GetCollection(store.Products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	filtered := []store.Record{}
	for _, p := range products {
		pName, _ := p["name"].(string)
		pCategory, _ := p["category"].(string)
		if name != "" && !strings.Contains(strings.ToLower(pName), name) {
			continue
		}
		if category != "" && !strings.Contains(strings.ToLower(pCategory), category) {
			continue
		}
		filtered = append(filtered, p)
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.FindOneWhere(store.Products, store.Record{"id": chi.URLParam(r, "id")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Patchable product fields; anything else in the payload is dropped.
var productFields = []string{"name", "price", "category", "on_hand", "description"}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := schema.Validate(schema.ProductCreate, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := store.Record{"description": ""}
	for _, field := range productFields {
		if v, ok := body[field]; ok {
			product[field] = v
		}
	}

	created, err := h.store.Insert(store.Products, product)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := schema.Validate(schema.ProductPatch, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updates := store.Record{}
	for _, field := range productFields {
		if v, ok := body[field]; ok {
			updates[field] = v
		}
	}

	product, err := h.store.UpdateByID(store.Products, chi.URLParam(r, "id"), updates)
	if err != nil {
		storeError(w, err, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteByID(store.Products, chi.URLParam(r, "id")); err != nil {
		storeError(w, err, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
