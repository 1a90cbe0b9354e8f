package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

type IMAPConfig struct {
	Addr     string // host:port, implicit TLS
	Username string
	Password string
	Mailbox  string
	From     string
	To       []string
}

// IMAP files the digest straight into a mailbox with APPEND instead of
// sending it, for accounts where outbound SMTP is blocked.
type IMAP struct {
	cfg IMAPConfig
	now func() time.Time
}

func NewIMAP(cfg IMAPConfig) *IMAP {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAP{cfg: cfg, now: time.Now}
}

func (n *IMAP) Notify(ctx context.Context, subject, body string) error {
	if n.cfg.Addr == "" {
		return errors.New("imap addr is required")
	}
	if n.cfg.Username == "" || n.cfg.Password == "" {
		return errors.New("imap username/password is required")
	}

	msg, err := Compose(Message{From: n.cfg.From, To: n.cfg.To, Subject: subject, Body: body, Date: n.now()})
	if err != nil {
		return err
	}

	c, err := n.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Logout().Wait()
		_ = c.Close()
	}()

	cmd := c.Append(n.cfg.Mailbox, int64(len(msg)), &imap.AppendOptions{Time: n.now()})
	if _, err := cmd.Write(msg); err != nil {
		_ = cmd.Close()
		return fmt.Errorf("imap append write: %w", err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap append close: %w", err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("imap append %s: %w", n.cfg.Mailbox, err)
	}
	return nil
}

func (n *IMAP) dial(ctx context.Context) (*imapclient.Client, error) {
	host, _, err := net.SplitHostPort(n.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("imap addr %q: %w", n.cfg.Addr, err)
	}

	c, err := imapclient.DialTLS(n.cfg.Addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Best-effort close on context cancel.
	context.AfterFunc(ctx, func() { _ = c.Close() })

	if err := c.Login(n.cfg.Username, n.cfg.Password).Wait(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}
