// Package auth issues and verifies the operator's bearer credentials.
package auth

import (
	"errors"
	"fmt"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "jewelry-ledger"

// Issuer signs and parses HS256 tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed credential for subject, valid for the issuer's TTL.
func (i *Issuer) Issue(subject string) (core.Credential, error) {
	now := i.now()
	expiry := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return core.Credential{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return core.Credential{Token: signed, Subject: subject, Expiry: expiry.Truncate(time.Second)}, nil
}

// Parse verifies token and returns the credential it carries.
func (i *Issuer) Parse(token string) (core.Credential, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return core.Credential{}, fmt.Errorf("invalid token: %w", core.ErrUnauthenticated)
	}
	if claims.Subject == "" {
		return core.Credential{}, fmt.Errorf("token has no subject: %w", core.ErrUnauthenticated)
	}
	return core.Credential{Token: token, Subject: claims.Subject, Expiry: claims.ExpiresAt.Time}, nil
}

// HashPassword returns the bcrypt hash stored in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against hash.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return fmt.Errorf("no operator password configured: %w", core.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("wrong password: %w", core.ErrUnauthenticated)
	}
	return nil
}
