package jwt

import (
	"errors"
	"strconv"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies HS512 tokens.
type Symmetric struct {
	cfg Config
}

// NewHS512 validates the key length and returns a Symmetric signer.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}
	return &Symmetric{cfg: cfg}, nil
}

func (s *Symmetric) Generate(accountID int64, phone string) (string, error) {
	now := s.cfg.Clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS512, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.cfg.UUID.Generate(),
				Subject:   strconv.FormatInt(accountID, 10),
				Issuer:    s.cfg.Issuer,
				Audience:  s.cfg.Audiences,
				IssuedAt:  libJWT.NewNumericDate(now),
				NotBefore: libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
			},
			AccountID: accountID,
			Phone:     phone,
		}).
		SignedString(s.cfg.Secret)
}

func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.cfg.Secret, nil
		},
		libJWT.WithIssuer(s.cfg.Issuer),
		libJWT.WithAudience(s.cfg.Audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.cfg.Clock.Now),
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, err
	}

	if !token.Valid || claims.AccountID <= 0 {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
