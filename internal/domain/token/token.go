// Package token decodes access-token claims for client-side expiry checks.
//
// The client never verifies signatures; that is the backend's job. Only the
// expiry claim is inspected, so a malformed token is simply treated as
// invalid.
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims holds the subset of JWT claims the client cares about.
type Claims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// Parse decodes the payload segment of a JWT without verifying its signature.
func Parse(raw string) (Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if c.ExpiresAt == 0 {
		return Claims{}, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}
	return c, nil
}

// decodeSegment handles both padded and unpadded base64url segments.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "=")); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "="))
}

// Expiry returns the expiry time of the claims.
func (c Claims) Expiry() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// Expired reports whether the claims are expired at now.
func (c Claims) Expired(now time.Time) bool {
	return !now.Before(c.Expiry())
}

// ExpiresWithin reports whether the claims expire within the window after
// now. Expired claims return false; they are past warning.
func (c Claims) ExpiresWithin(now time.Time, window time.Duration) bool {
	if c.Expired(now) {
		return false
	}
	return c.Expiry().Sub(now) <= window
}
