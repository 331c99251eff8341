package handler

import (
	"net/http"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/service"
)

// AuthHandler holds the admin authentication handlers.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"token": token})
}

// Me handles GET /api/auth/me (admin). It echoes the identity carried in the
// verified token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value(CtxAdminEmail).(string)
	respond(w, http.StatusOK, map[string]string{"email": email})
}
