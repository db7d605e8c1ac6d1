package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var timeNow = time.Now

var ErrNoSecret = errors.New("auth: signing secret is required")

// IssueSession signs a session token for userID and writes it to path. It
// backs the login command when the CLI runs against a local secret.
func IssueSession(path, secret, userID string, ttl time.Duration) error {
	if secret == "" {
		return ErrNoSecret
	}
	now := timeNow()
	claims := sessionClaims{
		EmailConfirmed: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return fmt.Errorf("auth: sign session: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(signed+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ClearSession removes the session file. A missing file is not an error.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
