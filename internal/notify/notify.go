// Package notify delivers a rendered digest. Delivery is best effort:
// errors are returned to the caller, never retried here.
package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"jobradar/internal/config"
	"jobradar/internal/secrets"
)

const (
	KindSMTP  = "smtp"
	KindGmail = "gmail"
	KindIMAP  = "imap"
	KindLog   = "log"
)

type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// New builds the notifier named by cfg.Kind, resolving its credentials.
func New(ctx context.Context, cfg config.Notify, log *zap.Logger) (Notifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case KindLog:
		return NewLog(os.Stdout, log), nil

	case KindSMTP:
		user := strings.TrimSpace(cfg.SMTP.Username)
		if user == "" {
			user = cfg.From
		}
		pw, err := secrets.Load(secrets.FromConfig("notify.smtp.password", cfg.SMTP.Password))
		if err != nil {
			return nil, err
		}
		return NewSMTP(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: user,
			Password: pw,
			From:     cfg.From,
			To:       cfg.To,
		}), nil

	case KindGmail:
		return NewGmail(ctx, cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile, cfg.From, cfg.To)

	case KindIMAP:
		pw, err := secrets.Load(secrets.FromConfig("notify.imap.password", cfg.IMAP.Password))
		if err != nil {
			return nil, err
		}
		return NewIMAP(IMAPConfig{
			Addr:     cfg.IMAP.Addr,
			Username: cfg.IMAP.Username,
			Password: pw,
			Mailbox:  cfg.IMAP.Mailbox,
			From:     cfg.From,
			To:       cfg.To,
		}), nil

	default:
		return nil, fmt.Errorf("unknown notify kind %q", cfg.Kind)
	}
}
