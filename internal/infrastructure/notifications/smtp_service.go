package notifications

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/you/marketauth/domain"
)

// SMTPConfig holds mail transport settings
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	// OTPExpiry is surfaced in the email copy so users know how long the
	// code stays valid.
	OTPExpiry time.Duration
	// LenientDelivery logs send failures instead of returning them. Used in
	// the local environment where no SMTP server is configured.
	LenientDelivery bool
}

// SMTPServiceImpl implements domain.NotificationService over SMTP with STARTTLS
type SMTPServiceImpl struct {
	config SMTPConfig
	logger *zap.Logger
}

// NewSMTPService creates a new SMTP notification service
func NewSMTPService(config SMTPConfig, logger *zap.Logger) domain.NotificationService {
	return &SMTPServiceImpl{config: config, logger: logger}
}

// SendOTPEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendOTPEmail(to, code string) error {
	minutes := int(s.config.OTPExpiry.Minutes())
	subject := "Email Verification - Service Marketplace"
	html := otpEmailHTML(code, minutes)
	text := fmt.Sprintf("Your verification code is: %s. This code will expire in %d minutes.", code, minutes)
	return s.send(to, subject, html, text)
}

// SendPasswordResetEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendPasswordResetEmail(to, code string) error {
	minutes := int(s.config.OTPExpiry.Minutes())
	subject := "Password Reset - Service Marketplace"
	html := passwordResetEmailHTML(code, minutes)
	text := fmt.Sprintf("Your password reset code is: %s. This code will expire in %d minutes.", code, minutes)
	return s.send(to, subject, html, text)
}

func (s *SMTPServiceImpl) send(to, subject, htmlBody, textBody string) error {
	msg := buildMIMEMessage(s.config.FromName, s.config.FromEmail, to, subject, htmlBody, textBody)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, msg); err != nil {
		if s.config.LenientDelivery {
			s.logger.Warn("email delivery failed in lenient mode",
				zap.String("to", to), zap.String("subject", subject), zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// buildMIMEMessage assembles a multipart/alternative message with a plain
// text part and an HTML part.
func buildMIMEMessage(fromName, fromEmail, to, subject, htmlBody, textBody string) []byte {
	const boundary = "mixed-boundary-marketauth"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
