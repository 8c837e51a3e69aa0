package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DerDob/kleiderkammer/internal/domain"
)

// SessionService mints and validates application session tokens. The SAML
// layer authenticates once per login; afterwards requests carry a signed JWT
// cookie with the identity and group memberships from the assertion.
type SessionService struct {
	secret []byte
	maxAge time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(secret string, maxAge time.Duration) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		maxAge: maxAge,
	}
}

// MaxAge returns the configured session lifetime.
func (s *SessionService) MaxAge() time.Duration {
	return s.maxAge
}

// Issue returns a signed token string for the given user.
func (s *SessionService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    user.Email,
		"name":   user.Name,
		"groups": user.Groups,
		"iat":    now.Unix(),
		"exp":    now.Add(s.maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token string and reconstructs the user
// that was encoded into it.
func (s *SessionService) Validate(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	email, err := claims.GetSubject()
	if err != nil || email == "" {
		return nil, domain.ErrUnauthorized
	}

	user := &domain.User{Email: email}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if rawGroups, ok := claims["groups"].([]any); ok {
		for _, g := range rawGroups {
			if group, ok := g.(string); ok {
				user.Groups = append(user.Groups, group)
			}
		}
	}

	return user, nil
}
