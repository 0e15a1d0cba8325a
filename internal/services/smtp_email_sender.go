package services

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type SMTPSender struct {
	Host       string
	Port       string
	User       string
	Pass       string
	From       string
	UseTLS     bool
	SkipVerify bool
}

func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = msg.From
	if e.From == "" {
		e.From = s.From
	}
	e.To = msg.To
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)

	addr := net.JoinHostPort(s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	tlsConfig := &tls.Config{ServerName: s.Host, InsecureSkipVerify: s.SkipVerify}
	if s.UseTLS {
		return e.SendWithTLS(addr, auth, tlsConfig)
	}
	if s.User != "" {
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
	return e.Send(addr, auth)
}
