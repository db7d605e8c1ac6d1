// Package auth resolves the logged-in user for planner requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sandeepkv93/sched/internal/model"
	"github.com/sandeepkv93/sched/internal/planner"
	"go.uber.org/zap"
)

var ErrInvalidSession = errors.New("auth: invalid session token")

type sessionClaims struct {
	EmailConfirmed bool `json:"email_confirmed"`
	jwt.RegisteredClaims
}

// TokenIdentity reads a session JWT from a file on every lookup, so logging
// in or out from another process takes effect without a restart.
type TokenIdentity struct {
	path   string
	secret []byte
}

var _ planner.Identity = (*TokenIdentity)(nil)

// NewTokenIdentity verifies tokens with secret when one is given. Without a
// secret the claims are read unverified.
func NewTokenIdentity(path, secret string, logger *zap.Logger) *TokenIdentity {
	if logger == nil {
		logger = zap.NewNop()
	}
	if secret == "" {
		logger.Warn("session tokens are not verified", zap.String("session_file", path))
	}
	return &TokenIdentity{path: strings.TrimSpace(path), secret: []byte(secret)}
}

// CurrentUser returns nil without error when no session file exists.
func (t *TokenIdentity) CurrentUser(_ context.Context) (*model.User, error) {
	if t.path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth: read session: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return nil, nil
	}
	return t.parse(token)
}

func (t *TokenIdentity) parse(token string) (*model.User, error) {
	claims := &sessionClaims{}
	if len(t.secret) > 0 {
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return t.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(timeNow))
		if err != nil || !parsed.Valid {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(timeNow()) {
			return nil, fmt.Errorf("%w: token is expired", ErrInvalidSession)
		}
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}
	return &model.User{ID: claims.Subject, EmailConfirmed: claims.EmailConfirmed}, nil
}

// StaticIdentity always reports the same user. An empty id means logged out.
type StaticIdentity struct {
	UserID string
}

var _ planner.Identity = StaticIdentity{}

func (s StaticIdentity) CurrentUser(context.Context) (*model.User, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return nil, nil
	}
	return &model.User{ID: s.UserID, EmailConfirmed: true}, nil
}
