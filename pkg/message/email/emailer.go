package mailer

// DigestSender delivers rendered digest emails.
// Implementing this interface lets the delivery service be swapped
// (SMTP, SendGrid, AWS SES, ...).
type DigestSender interface {
	// SendDigest sends a rendered HTML digest to the recipient.
	SendDigest(to, subject, htmlBody string) error
}
