package utils

import "golang.org/x/crypto/bcrypt"

// HashPIN returns the bcrypt hash of an administrative PIN using the
// given cost. Used once, out-of-band, to produce the ADMIN_PIN_HASH
// config value.
func HashPIN(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPIN safely compares the stored bcrypt hash against a supplied
// PIN. The destructive ticket purge is gated on this check.
func VerifyPIN(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
