package handlers

import (
	"net/http"

	"stockmana/internal/logging"
	"stockmana/internal/models"
	"stockmana/internal/services"
)

type ContactHandler struct {
	contact *services.ContactService
	log     logging.Logger
}

func NewContactHandler(contact *services.ContactService, log logging.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, log: log}
}

// ContactUs godoc
// @Tags Contact
// @Summary Send a message to support
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param body body models.ContactRequest true "Message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/contact-us/ [post]
func (h *ContactHandler) ContactUs(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req models.ContactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.contact.Send(r.Context(), u, req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Email sent!", nil)
}
