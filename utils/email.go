package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/sam0786-xyz/technova-backend/config"
)

// Mailer is what services depend on, so tests can substitute a fake and
// assert that delivery failures never fail the caller.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends over plain SMTP with STARTTLS.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// ======================
// Low-level send with STARTTLS handling
// ======================
func (m *SMTPMailer) Send(to, subject, body string) error {
	cfg := m.cfg
	if cfg.SMTPHost == "" || cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		fmt.Println("⚠️ SMTP not configured. Email not sent.")
		return nil
	}

	fromEmail := cfg.SMTPFromEmail
	if fromEmail == "" {
		fromEmail = cfg.SMTPUsername
	}

	addr := fmt.Sprintf("%s:%s", cfg.SMTPHost, cfg.SMTPPort)

	// Dial first, then upgrade with StartTLS - tls.Dial directly breaks on
	// servers that expect a plaintext greeting.
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         cfg.SMTPHost,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := fromEmail
	if cfg.SMTPFromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.SMTPFromName, fromEmail)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n%s\r\n", from, to, subject, body))

	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// TicketEmailBody builds the confirmation mail with the inline QR so the
// attendee can present it straight from their inbox.
func TicketEmailBody(name, eventTitle, qrDataURL string) string {
	return fmt.Sprintf(`
		<h2>You're in, %s! 🎉</h2>
		<p>Your registration for <b>%s</b> is confirmed.</p>
		<p>Show this code at the entrance:</p>
		<img src="%s" alt="ticket QR" width="256" height="256"/>
		<p>This ticket admits one attendee once. See you there!</p>
		<p>— TechNova Team</p>`, name, eventTitle, qrDataURL)
}
