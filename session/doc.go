// Package session defines the session record model and the reversible,
// storage-safe codecs used to persist it.
//
// Encoded sessions are URL-safe text: a format version prefix followed by a
// base64url payload, or a compact JWS when signed encoding is configured.
// Decoding a corrupted or foreign string fails with an error wrapping
// [ErrDecode]; it never panics.
package session
