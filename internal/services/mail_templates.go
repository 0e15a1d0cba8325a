package services

import (
	"bytes"
	"html/template"
)

const (
	resetEmailSubject   = "[Stock-Mana] Password Reset Request"
	contactEmailSubject = "[Stock-Mana] Contact: "
)

var resetEmailTmpl = template.Must(template.New("reset").Parse(`<div style="background-color:#444654;padding:20px 80px;font-family:Arial,sans-serif;text-align:center;">
  <div style="background-color:rgb(32,33,35);padding:20px;border-radius:25px;">
    <h1 style="color:whitesmoke;">[Stock Mana] Your Inventory Management Solution</h1>
    <p style="color:whitesmoke;font-size:18px;">Hello {{.Username}}, you recently requested to reset your password. Please use the following url to reset it:</p>
    <h2 style="background-color:#333;padding:20px;font-size:22px;margin:20px 0;"><a href="{{.ResetURL}}" style="color:#fff;" clicktracking="off">{{.ResetURL}}</a></h2>
    <p style="color:whitesmoke;font-size:18px;">If you did not request a password reset, please ignore this email. This reset url is only valid for {{.ValidMinutes}} minutes.</p>
    <p style="color:whitesmoke;font-size:18px;">Regards,</p>
    <p style="color:yellow;font-size:18px;">Stock Mana dev Team</p>
  </div>
</div>`))

var contactEmailTmpl = template.Must(template.New("contact").Parse(`<div style="font-family:Arial,sans-serif;">
  <p><strong>From:</strong> {{.Username}} &lt;{{.Email}}&gt;</p>
  <p style="white-space:pre-wrap;">{{.Message}}</p>
</div>`))

type resetEmailData struct {
	Username     string
	ResetURL     string
	ValidMinutes int
}

type contactEmailData struct {
	Username string
	Email    string
	Message  string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
