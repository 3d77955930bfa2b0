package session

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var testSigningKey = bytes.Repeat([]byte{0xA7}, 32)

func TestNewSignedCodecRejectsShortKey(t *testing.T) {
	if _, err := NewSignedCodec([]byte("short")); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestSignedCodecRoundTrip(t *testing.T) {
	codec, err := NewSignedCodec(testSigningKey)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	rec := testRecord()
	encoded, err := codec.Encode(rec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Developer == nil || decoded.Developer.ID != rec.Developer.ID {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
	if decoded.RedirectTarget != rec.RedirectTarget {
		t.Fatalf("redirect target mismatch: %q", decoded.RedirectTarget)
	}
}

func TestSignedCodecRejectsTamperedToken(t *testing.T) {
	codec, err := NewSignedCodec(testSigningKey)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	encoded, err := codec.Encode(testRecord())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parts := strings.Split(encoded, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact JWS, got %q", encoded)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.Decode(tampered); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode on tampered token, got %v", err)
	}
}

func TestSignedCodecRejectsForeignKey(t *testing.T) {
	codec, err := NewSignedCodec(testSigningKey)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	foreign, err := NewSignedCodec(bytes.Repeat([]byte{0x11}, 32))
	if err != nil {
		t.Fatalf("new foreign codec: %v", err)
	}

	encoded, err := foreign.Encode(testRecord())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := codec.Decode(encoded); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode on foreign token, got %v", err)
	}
}

func TestSignedCodecRejectsJSONCodecOutput(t *testing.T) {
	codec, err := NewSignedCodec(testSigningKey)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	plain, err := JSONCodec{}.Encode(testRecord())
	if err != nil {
		t.Fatalf("json encode: %v", err)
	}

	if _, err := codec.Decode(plain); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode on unsigned input, got %v", err)
	}
}
