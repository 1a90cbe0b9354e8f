package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"jobradar/internal/config"
)

const (
	// KeyringService groups the radar's secrets in the OS keychain.
	KeyringService = "jobradar"
)

var ErrNotFound = errors.New("secret not found")

// Source lists the places one secret may live. Load tries them in order:
// File, Env, KeyringAccount, Value.
type Source struct {
	Name           string
	File           string
	Env            string
	KeyringAccount string
	Value          string
}

func FromConfig(name string, s config.Secret) Source {
	return Source{Name: name, File: s.File, Env: s.Env, KeyringAccount: s.KeyringAccount}
}

func Load(src Source) (string, error) {
	if path := strings.TrimSpace(src.File); path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if v := strings.TrimSpace(string(b)); v != "" {
				return v, nil
			}
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("read %s secret file: %w", src.Name, err)
		}
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}

	if account := strings.TrimSpace(src.KeyringAccount); account != "" {
		v, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	if v := strings.TrimSpace(src.Value); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("%w: %s (set it in a file, env var or keychain)", ErrNotFound, src.Name)
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
