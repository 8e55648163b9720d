package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/bookstore/internal/domain/model"
)

// RegisterUser creates a USER account. Open to anonymous callers.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, err, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// ListUsers returns one page of users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)

	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, err, "failed to list users")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, ListResponse[UserResponse]{Items: items, Total: total, Skip: page.Skip, Take: page.Take})
}

// GetUser returns one user to itself or to an admin.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), principal(r), id)
	if err != nil {
		h.writeServiceError(w, err, "failed to get user", "user_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUser applies a partial update.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	update := model.UserUpdate{Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := model.Role(*req.Role)
		update.Role = &role
	}

	user, err := h.users.Update(r.Context(), principal(r), id, update)
	if err != nil {
		h.writeServiceError(w, err, "failed to update user", "user_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser removes a user together with its orders.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), principal(r), id); err != nil {
		h.writeServiceError(w, err, "failed to delete user", "user_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
