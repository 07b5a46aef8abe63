package handler

import (
	"net/http"

	"github.com/edagames/arena/internal/api/response"
	"github.com/edagames/arena/internal/model"
)

// UserLister exposes the current connected identity list
type UserLister interface {
	Users() []model.ClientID
}

// UsersHandler serves the connected-user list
type UsersHandler struct {
	users UserLister
}

// NewUsersHandler creates a users handler
func NewUsersHandler(users UserLister) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"users": h.users.Users(),
	})
}
