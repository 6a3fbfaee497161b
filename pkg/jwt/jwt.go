package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// Claims is the identity payload carried by a session token.
type Claims struct {
	ID        string `json:"jti,omitempty"` // unique token id, used by the optional revocation list
	Subject   string `json:"sub"`           // identity record primary key
	Email     string `json:"email"`
	IssuedAt  int64  `json:"iat"` // Unix seconds
	ExpiresAt int64  `json:"exp"` // Unix seconds; zero means no expiry
}

// Expiry returns the expiry instant, or the zero time when unset.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// Service signs and verifies session tokens with a single HMAC-SHA256 key.
// It is stateless and safe for concurrent use.
type Service struct {
	signingKey []byte
}

// New creates a token service. The key should be at least 32 bytes for
// adequate HMAC-SHA256 strength.
func New(signingKey []byte) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &Service{signingKey: signingKey}, nil
}

// NewFromString is a convenience wrapper around New for string-typed config.
func NewFromString(signingKey string) (*Service, error) {
	return New([]byte(signingKey))
}

// Issue signs claims into a compact token. IssuedAt is stamped with the
// current time and, when ttl is non-zero, ExpiresAt is stamped ttl from now,
// overwriting whatever the caller set. A negative ttl produces an
// already-expired token, which tests rely on.
func (s *Service) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = now.Unix()
	if ttl != 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("jwt: marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}

	payload := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(claimsJSON)

	return payload + "." + s.sign(payload), nil
}

// Verify checks the token's structure, signature and expiry, in that order,
// and returns the embedded claims on success. The signature is recomputed
// over the received payload and compared in constant time, so the error also
// tells tampering (ErrInvalidSignature) apart from natural expiry
// (ErrExpiredToken).
func (s *Service) Verify(token string) (Claims, error) {
	var claims Claims

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return claims, ErrMalformedToken
	}

	payload := parts[0] + "." + parts[1]
	expected := s.sign(payload)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) != 1 {
		return claims, ErrInvalidSignature
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return claims, ErrMalformedToken
	}
	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return claims, ErrMalformedToken
	}
	// The signature already proves the header is ours, but reject foreign
	// algorithms explicitly to rule out algorithm confusion.
	if hdr.Algorithm != headerAlgorithm {
		return claims, ErrUnexpectedAlg
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return claims, ErrMalformedToken
	}
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return claims, ErrMalformedToken
	}

	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return claims, ErrExpiredToken
	}

	return claims, nil
}

func (s *Service) sign(payload string) string {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
