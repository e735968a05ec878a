// Package auth mints and verifies the three token kinds used by the API:
// short-lived access tokens, long-lived refresh tokens and single-purpose
// password-reset tokens. All three are HS256 JWTs carrying the user's id
// and email; each kind is signed with its own secret so a leaked token of
// one kind can never be presented as another.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails signature,
// structure or expiry checks. Callers translate it to 403.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the claim set embedded in every token the service issues.
// UserID and Email identify the subject; the registered ID (jti) is only
// populated on reset tokens, where it keys the single-use bookkeeping.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Email  string `json:"email"`
}

// Issuer signs and verifies tokens. Construct one at startup and inject
// it wherever tokens are needed; secrets never leave this type.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	resetSecret   []byte
	accessTTL     time.Duration
	resetTTL      time.Duration
}

// NewIssuer builds an Issuer from the three signing secrets and the
// configured lifetimes for the expiring kinds.
func NewIssuer(accessSecret, refreshSecret, resetSecret string, accessTTL, resetTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		resetSecret:   []byte(resetSecret),
		accessTTL:     accessTTL,
		resetTTL:      resetTTL,
	}
}

// NewAccessToken signs an access token for the user. Access tokens expire
// after the configured TTL (24h by default) and cannot be revoked earlier;
// validity is signature + expiry only.
func (i *Issuer) NewAccessToken(userID uint64, email string) (string, error) {
	now := time.Now().UTC()
	return sign(i.accessSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
	})
}

// NewRefreshToken signs a refresh token for the user. Refresh tokens carry
// no expiry claim: in tracked mode the session registry is the sole
// invalidation lever, and in stateless mode they are honored indefinitely.
func (i *Issuer) NewRefreshToken(userID uint64, email string) (string, error) {
	return sign(i.refreshSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
		UserID: userID,
		Email:  email,
	})
}

// NewResetToken signs a password-reset token. The jti claim gives each
// reset token a unique identity so it can be marked as consumed.
func (i *Issuer) NewResetToken(userID uint64, email string) (string, error) {
	now := time.Now().UTC()
	return sign(i.resetSecret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.resetTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
	})
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string) (*Claims, error) { return verify(i.accessSecret, token) }

// VerifyRefresh validates a refresh token and returns its claims. This is
// the cryptographic half of refresh validation; in tracked mode the caller
// must additionally check liveness against the session registry.
func (i *Issuer) VerifyRefresh(token string) (*Claims, error) { return verify(i.refreshSecret, token) }

// VerifyReset validates a reset token and returns its claims. Pure check:
// it does not consume the token.
func (i *Issuer) VerifyReset(token string) (*Claims, error) { return verify(i.resetSecret, token) }

// ResetExpiry reports when claims from a reset token stop being valid.
// Used to bound how long a consumed jti needs to be remembered.
func ResetExpiry(c *Claims) time.Time {
	if c.ExpiresAt == nil {
		return time.Now().UTC()
	}
	return c.ExpiresAt.Time
}

func sign(secret []byte, claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func verify(secret []byte, raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
