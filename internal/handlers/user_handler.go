package handlers

import (
	"net/http"

	"stockmana/internal/apperr"
	"stockmana/internal/logging"
	"stockmana/internal/middleware"
	"stockmana/internal/models"
	"stockmana/internal/services"
)

type UserHandler struct {
	accounts *services.AccountService
	log      logging.Logger
}

func NewUserHandler(accounts *services.AccountService, log logging.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, log: log}
}

func currentUser(r *http.Request) (*models.User, error) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("You are not authorized, please Login or Register first...")
	}
	return u, nil
}

// GetUser godoc
// @Tags Users
// @Summary Current user's profile
// @Security CookieAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/users/get-user [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.accounts.GetProfile(r.Context(), u.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", p)
}

// UpdateProfile godoc
// @Tags Users
// @Summary Update profile fields
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param body body models.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/users/update-profile [patch]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req models.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	p, err := h.accounts.UpdateProfile(r.Context(), u.ID, req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "User profile updated successfully!!", p)
}

// ChangePassword godoc
// @Tags Users
// @Summary Change password
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param body body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/users/change-password [patch]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), u.ID, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password changed successfully!", nil)
}
