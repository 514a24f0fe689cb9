package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"omylab/pkg/utils"

	"go.uber.org/zap"
)

// Sender delivers a message to one address.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends HTML mail over implicit TLS (port 465).
type SMTPSender struct {
	cfg utils.EmailConfig
	log *zap.Logger
}

func NewSMTPSender(cfg utils.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg: cfg,
		log: log.With(zap.String("notifier", "smtp")),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	msg := buildMessage(from, to, subject, body)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Deadline: deadline},
		Config:    &tls.Config{ServerName: s.cfg.Host},
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Quit()

	if s.cfg.User != "" {
		if err := client.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	s.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// buildMessage renders an HTML message. Header values are Q-encoded so
// non-ASCII subjects survive transport.
func buildMessage(from, to, subject, body string) []byte {
	return []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)
}

// LogSender writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("notifier", "log"))}
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Debug("Email not sent, SMTP disabled",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// New picks the SMTP sender when a host is configured.
func New(cfg utils.EmailConfig, log *zap.Logger) Sender {
	if cfg.Host == "" {
		log.Warn("SMTP_HOST not set, emails are written to the debug log")
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg, log)
}
