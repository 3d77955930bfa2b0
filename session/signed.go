package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const minSigningKeyLength = 32

// ErrSigningKeyTooShort is returned by NewSignedCodec for keys below the
// minimum HMAC key length.
var ErrSigningKeyTooShort = errors.New("signing key too short")

type signedClaims struct {
	Record *Record `json:"rec"`
	jwt.RegisteredClaims
}

// SignedCodec encodes records as HS256-signed compact JWS. The output is
// URL-safe like the JSON codec, but tampered or foreign tokens fail signature
// verification on decode. Expiry is not enforced here; session expiry is
// driven by the refresh flow, not by the codec.
//
// SignedCodec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignedCodec struct {
	key []byte
}

// NewSignedCodec creates a [SignedCodec] with the given HMAC key. The key must
// be at least 32 bytes.
func NewSignedCodec(key []byte) (*SignedCodec, error) {
	if len(key) < minSigningKeyLength {
		return nil, ErrSigningKeyTooShort
	}
	out := make([]byte, len(key))
	copy(out, key)
	return &SignedCodec{key: out}, nil
}

// Encode describes the encode operation and its observable behavior.
//
// Encode may return an error when input validation, dependency calls, or security checks fail.
// Encode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *SignedCodec) Encode(r *Record) (string, error) {
	if c == nil || len(c.key) == 0 {
		return "", errors.New("signed codec not initialized")
	}
	if r == nil {
		return "", fmt.Errorf("%w: nil record", ErrDecode)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, signedClaims{Record: r})
	return token.SignedString(c.key)
}

// Decode describes the decode operation and its observable behavior.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *SignedCodec) Decode(text string) (*Record, error) {
	if c == nil || len(c.key) == 0 {
		return nil, errors.New("signed codec not initialized")
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	claims := &signedClaims{}
	_, err := jwt.ParseWithClaims(text, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if claims.Record == nil {
		return nil, fmt.Errorf("%w: missing record claim", ErrDecode)
	}

	return claims.Record, nil
}
