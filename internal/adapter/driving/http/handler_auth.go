package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/bookstore/internal/application"
)

// Login exchanges email and password for an access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(false)
		if errors.Is(err, application.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.metrics.ObserveLogin(true)
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token})
}

// Me returns the profile of the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), principal(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to load current user")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
