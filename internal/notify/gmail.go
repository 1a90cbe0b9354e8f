package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Gmail sends through the Gmail API (users.messages.send) as the account
// that authorized the stored token.
type Gmail struct {
	svc  *gmail.Service
	from string
	to   []string
	now  func() time.Time
}

// GmailOAuthConfig reads the OAuth client file downloaded from the Google
// Cloud console.
func GmailOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}
	conf, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}
	return conf, nil
}

func NewGmail(ctx context.Context, credentialsFile, tokenFile, from string, to []string) (*Gmail, error) {
	conf, err := GmailOAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}
	tok, err := TokenFromFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("gmail token %s (run `jobradar gmail-auth`): %w", tokenFile, err)
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("gmail service: %w", err)
	}
	return NewGmailWithService(svc, from, to), nil
}

func NewGmailWithService(svc *gmail.Service, from string, to []string) *Gmail {
	return &Gmail{svc: svc, from: from, to: to, now: time.Now}
}

func (g *Gmail) Notify(ctx context.Context, subject, body string) error {
	if g == nil || g.svc == nil {
		return errors.New("gmail notifier is not initialized")
	}
	msg, err := Compose(Message{From: g.from, To: g.to, Subject: subject, Body: body, Date: g.now()})
	if err != nil {
		return err
	}
	raw := base64.URLEncoding.EncodeToString(msg)
	if _, err := g.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}
