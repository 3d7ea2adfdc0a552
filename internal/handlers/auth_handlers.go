package handlers

import (
	"net/http"
	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	AuthService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: register")

	var request dto.CredentialsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	result, err := h.AuthService.Register(r.Context(), request.Username, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "register")
		return
	}

	logger.Info("HTTP_OUT: account created",
		zap.String("user_id", result.User.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusCreated, "Account created successfully", dto.FromAuthResult(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: login")

	var request dto.CredentialsRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	result, err := h.AuthService.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "login")
		return
	}

	logger.Info("HTTP_OUT: login successful",
		zap.String("user_id", result.User.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusOK, "Login successful", dto.FromAuthResult(result))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), u.ID); err != nil {
		handleServiceError(w, r, err, "logout")
		return
	}
	responseWithSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN: change password")

	u, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request dto.ChangePasswordRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if err := h.AuthService.ChangePassword(r.Context(), u.ID, request.CurrentPassword, request.NewPassword); err != nil {
		handleServiceError(w, r, err, "change_password")
		return
	}

	logger.Info("HTTP_OUT: password updated",
		zap.String("user_id", u.ID.String()),
		zap.Duration("ms", time.Since(start)))
	responseWithSuccess(w, http.StatusOK, "Password updated successfully", nil)
}
