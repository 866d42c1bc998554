// Package deeplink turns catalog business IDs into opaque URL-safe tokens
// for listing detail links, and back.
package deeplink

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// ErrInvalidToken is returned by Decode for tokens that were not produced by
// the same key, or that were altered.
var ErrInvalidToken = errors.New("invalid deep link token")

// Codec seals business IDs with NaCl secretbox.
type Codec struct {
	key [keySize]byte
}

// NewCodec returns a Codec using the given 32-byte key.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("deeplink.NewCodec: key must be %d bytes, got %d", keySize, len(key))
	}
	c := &Codec{}
	copy(c.key[:], key)
	return c, nil
}

// NewCodecFromHex parses a 64-character hex key.
func NewCodecFromHex(s string) (*Codec, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("deeplink.NewCodecFromHex: %w", err)
	}
	return NewCodec(key)
}

// NewRandomCodec returns a Codec with a fresh random key. Tokens it issues
// stop resolving when the process restarts.
func NewRandomCodec() (*Codec, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("deeplink.NewRandomCodec: %w", err)
	}
	return NewCodec(key)
}

// Encode seals id under a random nonce. Two encodings of the same id differ.
func (c *Codec) Encode(id string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("deeplink.Codec.Encode: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(id), &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a token produced by Encode.
func (c *Codec) Decode(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrInvalidToken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	id, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return "", ErrInvalidToken
	}
	return string(id), nil
}
