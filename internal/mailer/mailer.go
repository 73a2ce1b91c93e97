package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/dkim"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// Mailer submits signature test emails through an authenticated
// submission endpoint. Messages are DKIM-signed when a key is configured.
type Mailer struct {
	addr     string
	username string
	password string
	from     string
	signer   *dkim.Signer
	logger   *slog.Logger
}

func New(cfg config.SMTPConfig, logger *slog.Logger) (*Mailer, error) {
	m := &Mailer{
		addr:     cfg.Addr,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		logger:   logger,
	}

	if cfg.DKIM.KeyFile != "" {
		signer, err := dkim.NewSignerFromFile(cfg.DKIM.KeyFile, cfg.DKIM.Domain, cfg.DKIM.Selector)
		if err != nil {
			return nil, fmt.Errorf("failed to configure DKIM: %w", err)
		}
		m.signer = signer
	}

	return m, nil
}

// SendTest mails the rendered signature to a single recipient so an
// admin can check how it looks in a real client.
func (m *Mailer) SendTest(ctx context.Context, to string, sig *models.RenderedSignature) error {
	subject := fmt.Sprintf("Signature preview (%s)", sig.TemplateID)

	data, err := BuildMessage(m.from, to, subject, sig)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if m.signer != nil {
		signed, err := m.signer.Sign(data)
		if err != nil {
			m.logger.Warn("DKIM signing failed, sending unsigned", "error", err)
		} else {
			data = signed
		}
	}

	if err := m.submit(ctx, to, data); err != nil {
		return fmt.Errorf("failed to submit message: %w", err)
	}

	m.logger.Info("test signature sent", "to", to, "template", sig.TemplateID)
	return nil
}

func (m *Mailer) submit(ctx context.Context, to string, data []byte) error {
	host, _, err := net.SplitHostPort(m.addr)
	if err != nil {
		host = m.addr
	}

	client, err := smtp.DialStartTLS(m.addr, &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("connection to %s failed: %w", m.addr, err)
	}
	defer client.Close()

	if m.username != "" {
		if err := client.Auth(sasl.NewPlainClient("", m.username, m.password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- client.SendMail(m.from, []string{to}, bytes.NewReader(data))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return err
		}
	}

	return client.Quit()
}

// ValidateRecipient rejects obviously malformed addresses before a
// submission attempt.
func ValidateRecipient(to string) error {
	at := strings.Index(to, "@")
	if at <= 0 || at == len(to)-1 || strings.ContainsAny(to, " \t\r\n") {
		return fmt.Errorf("invalid recipient address %q", to)
	}
	return nil
}
