package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPMailer delivers passcodes through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host: host,
		port: port,
		from: from,
		auth: smtp.PlainAuth("", username, password, host),
	}
}

func (m *SMTPMailer) SendOtp(_ context.Context, email, passcode string) error {
	body := fmt.Sprintf("From: Chat App <%s>\r\nTo: %s\r\nSubject: Your Login OTP\r\n\r\n"+
		"Your login OTP is: %s (valid for 5 minutes)\r\n", m.from, email, passcode)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, m.auth, m.from, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", email, err)
	}
	return nil
}
