package handlers

import (
	"net/http"
	"taskManager/internal/handlers/dto"
)

type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.UserService.GetProfile(r.Context(), u.ID)
	if err != nil {
		handleServiceError(w, r, err, "get_profile")
		return
	}
	responseWithSuccess(w, http.StatusOK, "Profile fetched", dto.UserEnvelope{User: dto.FromUser(profile)})
}
