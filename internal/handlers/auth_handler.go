package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	cookie   CookieConfig
	log      logging.Logger
}

func NewAuthHandler(accounts *services.AccountService, cookie CookieConfig, log logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookie: cookie, log: log}
}

// Register godoc
// @Tags Users
// @Summary Register a new account
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/users/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.cookie.set(w, res.Token)
	writeSuccess(w, http.StatusCreated, "Account created! Welcome "+res.Username, res)
}

// Login godoc
// @Tags Users
// @Summary Log in
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.cookie.set(w, res.Token)
	writeSuccess(w, http.StatusOK, "Login Success! Welcome "+res.Username, res)
}

// Logout godoc
// @Tags Users
// @Summary Log out
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/users/log-out [get]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookie.clear(w)
	writeSuccess(w, http.StatusOK, "Successfully Logged out... See ya!", nil)
}

// LoginStatus godoc
// @Tags Users
// @Summary Report whether the session cookie is valid
// @Produce json
// @Success 200 {boolean} boolean
// @Router /api/users/login-status [get]
func (h *AuthHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(h.cookie.Name); err == nil {
		token = c.Value
	}
	writeJSON(w, http.StatusOK, h.accounts.LoginStatus(token))
}

// ForgotPassword godoc
// @Tags Users
// @Summary Email a password reset link
// @Accept json
// @Produce json
// @Param body body models.ForgotPasswordRequest true "Email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/users/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.accounts.ForgotPassword(r.Context(), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Your Reset Password Url has been sent to your email. check your email or spam.", nil)
}

// ResetPassword godoc
// @Tags Users
// @Summary Set a new password with a reset secret
// @Accept json
// @Produce json
// @Param resetToken path string true "Secret from the reset email"
// @Param body body models.ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/reset-password/{resetToken} [put]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), chi.URLParam(r, "resetToken"), req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Password reset successful, please login.", nil)
}
