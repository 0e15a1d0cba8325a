package services

import "context"

// EmailMessage is one outgoing HTML email.
type EmailMessage struct {
	Subject string
	HTML    string
	To      []string
	From    string
	ReplyTo string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}
