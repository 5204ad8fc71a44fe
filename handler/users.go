package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stevemurr/simple-shop-server/auth"
	"github.com/stevemurr/simple-shop-server/store"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetCollection(store.Users)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	safe := make([]store.Record, 0, len(users))
	for _, u := range users {
		safe = append(safe, safeUser(u))
	}
	writeJSON(w, http.StatusOK, safe)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if !auth.CanAccess(auth.UserFrom(r.Context()), username) {
		writeError(w, http.StatusForbidden, "Access denied: can only access your own data")
		return
	}

	user, err := h.store.FindOneWhere(store.Users, store.Record{"username": username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, safeUser(user))
}

type updateUserRequest struct {
	Email         *string `json:"email"`
	First         *string `json:"first"`
	Last          *string `json:"last"`
	StreetAddress *string `json:"street_address"`
	Password      *string `json:"password"`
	Role          *string `json:"role"`
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	caller := auth.UserFrom(r.Context())
	if !auth.CanAccess(caller, username) {
		writeError(w, http.StatusForbidden, "Access denied: can only access your own data")
		return
	}

	var req updateUserRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	updates := store.Record{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.First != nil {
		updates["first"] = *req.First
	}
	if req.Last != nil {
		updates["last"] = *req.Last
	}
	if req.StreetAddress != nil {
		updates["street_address"] = *req.StreetAddress
	}
	// Only admin can change roles.
	if req.Role != nil && caller["role"] == "admin" {
		updates["role"] = *req.Role
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update user")
			return
		}
		updates["password"] = hashed
	}

	// Records are keyed by id, not username, so resolve the target first.
	target, err := h.store.FindOneWhere(store.Users, store.Record{"username": username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update user")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	id, _ := target["id"].(string)

	user, err := h.store.UpdateByID(store.Users, id, updates)
	if err != nil {
		storeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, safeUser(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	target, err := h.store.FindOneWhere(store.Users, store.Record{"username": username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	id, _ := target["id"].(string)

	if err := h.store.DeleteByID(store.Users, id); err != nil {
		storeError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
