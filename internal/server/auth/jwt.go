// Package auth is the credential service: bcrypt password digests and
// signed, expiring session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvote/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fallback lifetime when neither the caller nor the
// issuer configuration supplies a positive one.
const DefaultTokenTTL = 15 * time.Minute

// SigningConfig is the process-wide token signing setup. It is built once at
// startup and shared by pointer; nothing mutates it afterwards.
type SigningConfig struct {
	key    []byte
	method jwt.SigningMethod
}

// NewSigningConfig accepts the HMAC algorithms HS256, HS384 and HS512.
func NewSigningConfig(key []byte, algorithm string) (*SigningConfig, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &SigningConfig{key: k, method: method}, nil
}

func (c *SigningConfig) Algorithm() string {
	return c.method.Alg()
}

// Claims is what a verified token proves.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

type Issuer struct {
	cfg        *SigningConfig
	defaultTTL time.Duration
	now        func() time.Time
}

// NewIssuer signs with cfg. defaultTTL replaces a non-positive ttl passed to
// IssueToken; a non-positive defaultTTL means DefaultTokenTTL.
func NewIssuer(cfg *SigningConfig, defaultTTL time.Duration) *Issuer {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	return &Issuer{cfg: cfg, defaultTTL: defaultTTL, now: time.Now}
}

// IssueToken signs a token for subject that expires ttl from now.
func (i *Issuer) IssueToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.defaultTTL
	}
	now := i.now()

	token := jwt.NewWithClaims(i.cfg.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	tokenString, err := token.SignedString(i.cfg.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks signature, algorithm and expiry. Any failure is
// reported as common.ErrInvalidToken.
func (i *Issuer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.cfg.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.cfg.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	return &Claims{Subject: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
