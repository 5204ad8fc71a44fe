// Package handler provides the HTTP handlers for the shop server.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/stevemurr/simple-shop-server/auth"
	"github.com/stevemurr/simple-shop-server/shop"
	"github.com/stevemurr/simple-shop-server/store"
)

// Handler holds the server dependencies and registers routes.
type Handler struct {
	store    *store.DocumentStore
	checkout *shop.Checkout
	auth     *auth.Service
	router   chi.Router
}

// New creates a Handler and wires up all routes.
func New(s *store.DocumentStore, checkout *shop.Checkout, authService *auth.Service) *Handler {
	h := &Handler{
		store:    s,
		checkout: checkout,
		auth:     authService,
		router:   chi.NewRouter(),
	}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Timeout(60 * time.Second))

	authed := auth.NewMiddleware(h.auth, h.store)

	h.router.Get("/", h.root)
	h.router.Get("/health", h.health)

	h.router.Route("/auth", func(r chi.Router) {
		r.Use(auth.Throttle(rate.NewLimiter(rate.Limit(5), 10)))
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	h.router.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/search", h.searchProducts)
		r.Get("/{id}", h.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(authed.Authenticate, auth.RequireAdmin)
			r.Post("/", h.createProduct)
			r.Patch("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})

	h.router.Route("/users", func(r chi.Router) {
		r.Use(authed.Authenticate)
		r.With(auth.RequireAdmin).Get("/", h.listUsers)
		r.Get("/{username}", h.getUser)
		r.Patch("/{username}", h.updateUser)
		r.With(auth.RequireAdmin).Delete("/{username}", h.deleteUser)
	})

	h.router.Route("/orders", func(r chi.Router) {
		r.Use(authed.Authenticate)
		r.With(auth.RequireAdmin).Get("/", h.listOrders)
		r.Get("/my-orders", h.myOrders)
		r.Get("/user/{username}", h.ordersForUser)
		r.Get("/{id}", h.getOrder)
		r.Post("/checkout", h.checkoutOrder)
		r.With(auth.RequireAdmin).Patch("/{id}", h.updateOrder)
		r.With(auth.RequireAdmin).Delete("/{id}", h.deleteOrder)
	})
}

// ---------- status endpoints ----------

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Simple Shop Server",
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// storeError maps document store failures onto HTTP responses.
func storeError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// safeUser strips the password hash from a user record before it leaves the
// server.
func safeUser(user store.Record) store.Record {
	out := store.Record{}
	for k, v := range user {
		if k != "password" {
			out[k] = v
		}
	}
	return out
}
