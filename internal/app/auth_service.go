// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"blogpessoal/internal/auth"
	"blogpessoal/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates a missing, invalid, expired or revoked access token.
	ErrUnauthorized = errors.New("unauthorized")
)

// TokenIssuer issues and verifies access tokens.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, *auth.Claims, error)
	Parse(token string) (*auth.Claims, error)
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"usuario"`
	Photo string `json:"foto"`
	Token string `json:"token"`
}

// AuthService handles authentication and token revocation.
type AuthService struct {
	users    domain.UserRepository
	tokens   TokenIssuer
	denylist domain.TokenDenylist
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, tokens TokenIssuer, denylist domain.TokenDenylist) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
	}
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate validates a raw access token and returns its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Email != claims.Subject {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Logout revokes the access token until it expires.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return ErrUnauthorized
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// LoginWithSSO issues a token for a user already authenticated by an
// identity provider, provisioning the account on first login.
func (s *AuthService) LoginWithSSO(ctx context.Context, email, name string) (*LoginResult, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if name == "" {
			name = email
		}
		// SSO accounts get an unguessable password so the local login stays closed.
		secret, err := generateSecret()
		if err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(secret)
		if err != nil {
			return nil, err
		}
		user, err = s.users.Create(ctx, &domain.User{Name: name, Email: email, PasswordHash: hash})
		if errors.Is(err, domain.ErrEmailTaken) {
			// Lost a race with a concurrent first login.
			user, err = s.users.GetByEmail(ctx, email)
		}
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrNotFound
		}
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*LoginResult, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Photo: user.Photo,
		Token: "Bearer " + token,
	}, nil
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
