package notify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Message is one outgoing digest email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
	Date    time.Time
}

// Compose renders m as an RFC 5322 plain-text message.
func Compose(m Message) ([]byte, error) {
	from, err := mail.ParseAddress(strings.TrimSpace(m.From))
	if err != nil {
		return nil, fmt.Errorf("parse from address %q: %w", m.From, err)
	}
	if len(m.To) == 0 {
		return nil, errors.New("no recipients")
	}
	to := make([]*mail.Address, 0, len(m.To))
	for _, raw := range m.To {
		a, err := mail.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", raw, err)
		}
		to = append(to, a)
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}

	var h mail.Header
	h.SetDate(m.Date)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	h.SetSubject(m.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if _, err := io.WriteString(w, m.Body); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close message: %w", err)
	}
	return buf.Bytes(), nil
}

func addresses(list []string) []string {
	out := make([]string, 0, len(list))
	for _, raw := range list {
		a, err := mail.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		out = append(out, a.Address)
	}
	return out
}
