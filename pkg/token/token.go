package token

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/taskforge/backend/domain"
)

// Identity is the minimal claim carried by every issued token.
type Identity struct {
	UserID string
	Email  string
}

type claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Config holds the independent secrets and lifetimes for the two token
// classes. A leaked refresh token must not compromise access verification,
// so the pairs share nothing.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Service issues and verifies signed, time-limited access and refresh tokens.
// Tokens are never persisted; validity is signature plus expiry only.
type Service struct {
	cfg Config
}

// NewService builds a token service. Missing secrets are tolerated here and
// reported per call, so a deployment that never issues refresh tokens can run
// without a refresh secret.
func NewService(cfg Config) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{cfg: cfg}
}

// IssueAccess signs a short-lived access token embedding the identity.
func (s *Service) IssueAccess(id Identity) (string, error) {
	if s.cfg.AccessSecret == "" {
		return "", domain.NewError(domain.ErrCodeConfig, "access token secret is not configured")
	}
	return s.issue(id, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

// IssueRefresh signs a long-lived refresh token embedding the identity.
func (s *Service) IssueRefresh(id Identity) (string, error) {
	if s.cfg.RefreshSecret == "" {
		return "", domain.NewError(domain.ErrCodeConfig, "refresh token secret is not configured")
	}
	return s.issue(id, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

// VerifyAccess validates signature and expiry against the access secret and
// returns the embedded identity.
func (s *Service) VerifyAccess(tokenString string) (*Identity, error) {
	return s.verify(tokenString, s.cfg.AccessSecret)
}

// VerifyRefresh validates signature and expiry against the refresh secret and
// returns the embedded identity.
func (s *Service) VerifyRefresh(tokenString string) (*Identity, error) {
	return s.verify(tokenString, s.cfg.RefreshSecret)
}

func (s *Service) issue(id Identity, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "token signing failed", err)
	}
	return signed, nil
}

func (s *Service) verify(tokenString, secret string) (*Identity, error) {
	if secret == "" {
		return nil, domain.NewError(domain.ErrCodeConfig, "token secret is not configured")
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.NewErrorf(domain.ErrCodeInvalidToken, "unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeInvalidToken, "invalid or expired token", err)
	}

	return &Identity{UserID: c.UserID, Email: c.Email}, nil
}
