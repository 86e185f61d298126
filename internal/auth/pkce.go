package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// unreservedAlphabet is the RFC 7636 code verifier character set.
const unreservedAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const (
	// DefaultVerifierLength balances entropy against URL length.
	// PKCE permits 43-128 characters.
	DefaultVerifierLength = 64

	minVerifierLength = 43
	maxVerifierLength = 128
)

// GenerateVerifier produces a code verifier of the given length with
// characters sampled uniformly from the unreserved alphabet using crypto/rand.
//
// A length of 0 selects [DefaultVerifierLength]; lengths outside the PKCE
// range are rejected.
func GenerateVerifier(length int) (string, error) {
	if length == 0 {
		length = DefaultVerifierLength
	}
	if length < minVerifierLength || length > maxVerifierLength {
		return "", fmt.Errorf("verifier length %d outside PKCE range [%d, %d]", length, minVerifierLength, maxVerifierLength)
	}

	// Rejection sampling keeps the distribution uniform: only bytes below
	// the largest multiple of the alphabet size are used.
	limit := byte(256 - 256%len(unreservedAlphabet))
	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, unreservedAlphabet[int(b)%len(unreservedAlphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(sha256(verifier)) without padding. Deterministic.
func DeriveChallenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
