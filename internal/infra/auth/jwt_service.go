// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
)

const (
	// sessionTTL matches the original endpoint contract: a login token is
	// valid for 20 hours.
	sessionTTL = 20 * time.Hour

	// verificationTTL bounds how long a "verify your email" link stays valid.
	verificationTTL = 24 * time.Hour

	sessionAudience      = "storefront.session"
	verificationAudience = "storefront.verify"

	resetTokenBytes = 32
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Session and verification tokens are signed with separate secrets, so a
// compromised verification secret cannot mint sessions.
type jwtService struct {
	sessionSecret string
	verifySecret  string
}

// sessionTokenClaims is the wire shape of a session token.
type sessionTokenClaims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Role      string `json:"role,omitempty"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

// verificationTokenClaims is the wire shape of an email-verification token.
type verificationTokenClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Session == "" || cfg.SecretKey.Verification == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.SecretKey.Session == cfg.SecretKey.Verification {
		return nil, errors.New("session and verification secrets must differ")
	}

	return &jwtService{
		sessionSecret: cfg.SecretKey.Session,
		verifySecret:  cfg.SecretKey.Verification,
	}, nil
}

// IssueSession creates a signed session token embedding the account's public identity claims.
func (s *jwtService) IssueSession(account *entity.Account) (string, error) {
	now := time.Now()
	claims := &sessionTokenClaims{
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Role:      account.Role.String(),
		Kind:      service.TokenKindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return token.SignedString([]byte(s.sessionSecret))
}

// IssueVerification creates a signed email-verification token for the given account.
func (s *jwtService) IssueVerification(accountID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &verificationTokenClaims{
		Kind: service.TokenKindEmailVerification,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Audience:  jwt.ClaimStrings{verificationAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(verificationTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return token.SignedString([]byte(s.verifySecret))
}

// ValidateSession checks a session token and returns its decoded claims.
func (s *jwtService) ValidateSession(tokenString string) (*service.SessionClaims, error) {
	claims := &sessionTokenClaims{}
	if err := s.parse(tokenString, claims, s.sessionSecret, sessionAudience); err != nil {
		return nil, err
	}
	if claims.Kind != service.TokenKindSession {
		return nil, errors.New("token is not a session token")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in session token")
	}

	return &service.SessionClaims{
		AccountID: accountID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      entity.Role(claims.Role),
	}, nil
}

// ValidateVerification checks an email-verification token and returns the subject account ID.
func (s *jwtService) ValidateVerification(tokenString string) (uuid.UUID, error) {
	claims := &verificationTokenClaims{}
	if err := s.parse(tokenString, claims, s.verifySecret, verificationAudience); err != nil {
		return uuid.Nil, err
	}
	if claims.Kind != service.TokenKindEmailVerification {
		return uuid.Nil, errors.New("token is not a verification token")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "invalid subject in verification token")
	}

	return accountID, nil
}

// NewResetToken generates an opaque single-use reset token and its storage hash.
func (s *jwtService) NewResetToken() (string, string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "failed to generate reset token")
	}

	plain := hex.EncodeToString(buf)

	return plain, s.HashToken(plain), nil
}

// HashToken returns the SHA-256 hex digest of an opaque token.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// parse validates signature, expiry, and audience for either token kind.
func (s *jwtService) parse(tokenString string, claims jwt.Claims, secret, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	}, jwt.WithAudience(audience))
	if err != nil {
		return errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return errors.New("token is invalid")
	}

	return nil
}
