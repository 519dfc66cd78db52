package tasks

import (
	"fmt"
	"io"

	"gopkg.in/mail.v2"
)

// Attachment is a file sent along an e-mail
type Attachment struct {
	Name string
	Data []byte
}

// Message is an outgoing HTML e-mail
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// SMTPMailer sends messages through an SMTP relay
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a message
func (m *SMTPMailer) Send(msg *Message) error {
	if err := m.dialer.DialAndSend(compose(m.from, msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// compose converts a message into its MIME form
func compose(from string, msg *Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Name, mail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return m
}
