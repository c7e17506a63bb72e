package email

import (
	"context"
	"fmt"
	"html"
	"net/url"
)

// Mailer composes the account lifecycle messages and hands them to a sender.
// A nil sender is allowed: sends become no-ops that report not-sent, which
// keeps unconfigured development environments working.
type Mailer struct {
	sender EmailSender
	config Config
}

// NewMailer creates a mailer over the given sender.
func NewMailer(sender EmailSender, cfg Config) *Mailer {
	return &Mailer{sender: sender, config: cfg}
}

// Configured reports whether a sender is attached.
func (m *Mailer) Configured() bool {
	return m.sender != nil
}

// SendVerificationEmail sends the address confirmation link issued at registration.
func (m *Mailer) SendVerificationEmail(ctx context.Context, to, username, token string) error {
	link := m.link("/verify-email", token)
	body := m.layout(
		fmt.Sprintf("Hi %s!", html.EscapeString(username)),
		"Thanks for signing up. Please confirm your email address by clicking the button below.",
		link, "Verify email",
		"If you didn't create an account, you can safely ignore this email.",
	)
	return m.send(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("Verify your email - %s", m.config.AppName),
		BodyHTML: body,
		Tag:      "email-verification",
	})
}

// SendPasswordResetEmail sends the password reset link. The link expires one
// hour after issuance, matching the stored token's lifetime.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := m.link("/reset-password", token)
	body := m.layout(
		"Password reset requested",
		"We received a request to reset your password. The link below is valid for one hour.",
		link, "Reset password",
		"If you didn't request a reset, no action is needed; your password is unchanged.",
	)
	return m.send(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("Reset your password - %s", m.config.AppName),
		BodyHTML: body,
		Tag:      "password-reset",
	})
}

// SendPasswordChangedEmail notifies the account holder that their password changed.
func (m *Mailer) SendPasswordChangedEmail(ctx context.Context, to, username string) error {
	body := m.layout(
		fmt.Sprintf("Hi %s,", html.EscapeString(username)),
		"Your password was just changed. If this was you, no further action is needed.",
		m.config.FrontendURL+"/forgot-password", "Secure my account",
		"If you didn't change your password, reset it immediately using the button above.",
	)
	return m.send(ctx, SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("Your password was changed - %s", m.config.AppName),
		BodyHTML: body,
		Tag:      "password-changed",
	})
}

func (m *Mailer) send(ctx context.Context, params SendEmailParams) error {
	if m.sender == nil {
		return ErrFailedToSendEmail
	}
	return m.sender.SendEmail(ctx, params)
}

func (m *Mailer) link(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", m.config.FrontendURL, path, url.QueryEscape(token))
}

// layout renders the shared HTML shell: header, lead text, action button,
// and a footer note.
func (m *Mailer) layout(heading, lead, href, action, note string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0;">
      <h1>%s</h1>
    </div>
    <div style="background: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px;">
      <h2>%s</h2>
      <p>%s</p>
      <a href="%s" style="display: inline-block; padding: 12px 30px; background: #4F46E5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0;">%s</a>
      <p>Or copy this link:</p>
      <p style="word-break: break-all; color: #666;">%s</p>
      <p style="margin-top: 30px; color: #666;">%s</p>
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(m.config.AppName),
		heading,
		html.EscapeString(lead),
		href, html.EscapeString(action),
		href,
		html.EscapeString(note),
	)
}
