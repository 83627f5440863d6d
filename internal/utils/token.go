package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewStaffToken builds and signs an HS256 JWT for a staff member
// (ADMIN or GATE role). Account management is outside this core; the
// operator mints tokens out-of-band with the shared secret, and the
// middleware only verifies them. The JWT carries the standard subject,
// role, expiration and issued-at claims.
func NewStaffToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
