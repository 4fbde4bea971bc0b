// Package email sends the auth service's outbound notifications over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config is the SMTP connection and sender configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends password reset links and one-time codes. It satisfies the
// service layer's Mailer interface.
type Mailer struct {
	client *mail.Client
	from   string
}

func NewMailer(cfg Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, name, callbackURL string) error {
	body := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>We received a request to reset your FreshMart password. Click the link
below to choose a new one:</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request this, you can ignore this email.</p>
<p>The FreshMart Team</p>
</body></html>`, name, callbackURL)

	return m.send(ctx, to, "Reset your FreshMart password", body)
}

func (m *Mailer) SendOTP(ctx context.Context, to, name string, otp int) error {
	body := fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your FreshMart one-time login code is:</p>
<p><strong>%d</strong></p>
<p>If you did not request this code, you can ignore this email.</p>
<p>The FreshMart Team</p>
</body></html>`, name, otp)

	return m.send(ctx, to, "Your FreshMart login code", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
