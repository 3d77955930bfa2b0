package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrDecode is returned (wrapped) when an encoded session is empty, malformed,
// or was not produced by a matching codec. Callers must treat it as "no valid
// session", not as a fatal condition.
var ErrDecode = errors.New("session decode failed")

const (
	formatVersionCurrent = "v1"
	formatSeparator      = "."
)

// Codec converts a session record to and from its persisted textual form.
// Decode is the inverse of Encode: Decode(Encode(r)) == r for any well-formed r.
type Codec interface {
	Encode(*Record) (string, error)
	Decode(string) (*Record, error)
}

// JSONCodec is the default codec: sonic-serialized JSON wrapped in unpadded
// base64url, prefixed with a format version.
//
// JSONCodec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JSONCodec struct{}

// Encode describes the encode operation and its observable behavior.
//
// Encode may return an error when input validation, dependency calls, or security checks fail.
// Encode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (JSONCodec) Encode(r *Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil record", ErrDecode)
	}
	payload, err := sonic.Marshal(r)
	if err != nil {
		return "", err
	}
	return formatVersionCurrent + formatSeparator + base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decode describes the decode operation and its observable behavior.
//
// Decode may return an error when input validation, dependency calls, or security checks fail.
// Decode does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (JSONCodec) Decode(text string) (*Record, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}

	version, body, found := strings.Cut(text, formatSeparator)
	if !found {
		return nil, fmt.Errorf("%w: missing format version", ErrDecode)
	}
	if version != formatVersionCurrent {
		return nil, fmt.Errorf("%w: unsupported format version %q", ErrDecode, version)
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	rec := &Record{}
	if err := sonic.Unmarshal(payload, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return rec, nil
}
