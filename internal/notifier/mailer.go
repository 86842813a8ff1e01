package notifier

import (
	"fmt"
	"net/smtp"

	"backoffice/internal/util"

	"go.uber.org/zap"
)

// Mailer delivers one rendered notification to a recipient.
type Mailer interface {
	Deliver(to, subject, htmlBody, textBody string) error
}

// SMTPMailer sends multipart mail through an SMTP relay. An empty username
// skips authentication for relays that allow it.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

// Deliver sends the message. The text body is included as a fallback part.
func (m *SMTPMailer) Deliver(to, subject, htmlBody, textBody string) error {
	boundary := "np-backoffice-boundary"
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n"+
		"Content-Type: multipart/alternative; boundary=%q\r\n\r\n"+
		"--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n"+
		"--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n"+
		"--%s--\r\n",
		m.from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// LogMailer records the message instead of sending it. Used outside
// production so status changes never mail real customers.
type LogMailer struct{}

// NewLogMailer creates a log-only mailer
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Deliver logs the message and reports success
func (m *LogMailer) Deliver(to, subject, htmlBody, textBody string) error {
	preview := textBody
	if len(preview) > 120 {
		preview = preview[:120]
	}
	util.GetLogger().Info("Email suppressed (log driver)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("preview", preview))
	return nil
}
