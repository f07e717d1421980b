package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/rs/zerolog"
	"gopkg.in/mail.v2"
)

const smtpDialTimeout = 10 * time.Second

// SMTPEmailSender sends alert emails through an SMTP relay.
type SMTPEmailSender struct {
	enabled  bool
	host     string
	port     int
	username string
	password string
	from     string
	logger   zerolog.Logger
}

func NewSMTPEmailSender(cfg config.NotificationConfig, logger zerolog.Logger) *SMTPEmailSender {
	moduleLogger := logger.With().Str("component", "SMTPEmailSender").Logger()
	enabled := cfg.EmailEnabled && cfg.SMTPHost != ""
	if !enabled {
		moduleLogger.Warn().Msg("SMTP not configured, email alerts will be recorded as failed")
	}
	return &SMTPEmailSender{
		enabled:  enabled,
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		logger:   moduleLogger,
	}
}

// Send dials the relay and delivers the message. ctx is checked before
// dialing; the SMTP exchange itself is bounded by the dial timeout.
func (s *SMTPEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.enabled {
		return ErrChannelDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("From", s.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)

	dialer := mail.NewDialer(s.host, s.port, s.username, s.password)
	dialer.Timeout = smtpDialTimeout
	dialer.TLSConfig = &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	s.logger.Info().Str("to", to).Msg("Email alert sent")
	return nil
}
