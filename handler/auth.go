package handler

import (
	"net/http"

	"github.com/stevemurr/simple-shop-server/auth"
	"github.com/stevemurr/simple-shop-server/store"
)

type registerRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	First         string `json:"first"`
	Last          string `json:"last"`
	StreetAddress string `json:"street_address"`
	Role          string `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" || req.First == "" || req.Last == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	existing, err := h.store.FindOneWhere(store.Users, store.Record{"username": req.Username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	existing, err = h.store.FindOneWhere(store.Users, store.Record{"email": req.Email})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Email already exists")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	// Admin only when explicitly requested; anything else is a plain user.
	role := "user"
	if req.Role == "admin" {
		role = "admin"
	}

	user, err := h.store.Insert(store.Users, store.Record{
		"username":       req.Username,
		"password":       hashed,
		"email":          req.Email,
		"first":          req.First,
		"last":           req.Last,
		"street_address": req.StreetAddress,
		"role":           role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    safeUser(user),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, err := h.store.FindOneWhere(store.Users, store.Record{"username": req.Username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	hash, _ := user["password"].(string)
	if !auth.CheckPassword(req.Password, hash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	role, _ := user["role"].(string)
	token, err := h.auth.GenerateToken(req.Username, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    safeUser(user),
	})
}
