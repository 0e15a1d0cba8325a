package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"stockmana/internal/apperr"
	"stockmana/internal/logging"
	"stockmana/internal/models"
)

// ContactService relays a signed-in user's message to the support inbox.
type ContactService struct {
	mailer       EmailSender
	supportEmail string
	log          logging.Logger
	v            *validator.Validate
}

func NewContactService(mailer EmailSender, supportEmail string, log logging.Logger) *ContactService {
	return &ContactService{mailer: mailer, supportEmail: supportEmail, log: log, v: newValidator()}
}

func (s *ContactService) Send(ctx context.Context, user *models.User, req models.ContactRequest) error {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateRequest(s.v, req, "Please provide more information for us.."); err != nil {
		return err
	}

	body, err := render(contactEmailTmpl, contactEmailData{
		Username: user.Username,
		Email:    user.Email,
		Message:  req.Message,
	})
	if err != nil {
		return apperr.Internal("failed to render contact email", err)
	}

	err = s.mailer.Send(ctx, EmailMessage{
		Subject: contactEmailSubject + req.Subject,
		HTML:    body,
		To:      []string{s.supportEmail},
		From:    s.supportEmail,
		ReplyTo: user.Email,
	})
	if err != nil {
		s.log.Error(ctx, "contact email failed", "user_id", user.ID, "error", err)
		return apperr.Dependency(msgEmailNotSent, err)
	}
	return nil
}
