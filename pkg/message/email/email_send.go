package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends email over plain SMTP (implements DigestSender).
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Make sure Mailer implements the DigestSender interface
var _ DigestSender = (*Mailer)(nil)

// NewMailer creates an SMTP mailer.
func NewMailer(host, port, username, password string) *Mailer {
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
	}
}

// SendDigest sends a rendered HTML digest to the recipient.
func (m *Mailer) SendDigest(to, subject, htmlBody string) error {
	return m.sendEmail(to, subject, htmlBody)
}

// sendEmail performs the actual delivery
func (m *Mailer) sendEmail(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = m.Username
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	if err := smtp.SendMail(addr, auth, m.Username, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
