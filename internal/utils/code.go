package utils // package utils provides identifier, QR and rendering helpers

import (
	"crypto/rand"
	"errors"
	"strconv"
	"strings"
	"time"
)

// codePrefix prefixes every confirmation code. The code stays short
// enough to type manually at the gate.
const codePrefix = "TKT-"

// qrPrefix prefixes every QR payload so a scanner can tell ticket
// symbols from arbitrary codes.
const qrPrefix = "TICKET-"

// codeAlphabet is the uppercase human-typeable alphabet used for the
// random suffix. 0/O and 1/I are kept; the suffix is checked against
// the store, not read back over the phone.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const randomSuffixLen = 4

// ErrBadQRPayload is returned when a scanned payload cannot be split
// back into a confirmation code and an event id.
var ErrBadQRPayload = errors.New("utils: malformed qr payload")

// NewConfirmationCode generates a confirmation code from the current
// time: a base-36 millisecond timestamp segment (monotonically
// increasing between issuances) plus a short random suffix, rendered
// uppercase.
func NewConfirmationCode(now time.Time) (string, error) {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix, err := randomCode(randomSuffixLen)
	if err != nil {
		return "", err
	}
	return codePrefix + ts + suffix, nil
}

// randomCode returns n cryptographically random characters from the
// code alphabet.
func randomCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// BuildQRPayload embeds the confirmation code and event id into the
// string carried by the QR symbol: TICKET-<code>-<eventID>.
func BuildQRPayload(code, eventID string) string {
	return qrPrefix + code + "-" + eventID
}

// ParseQRPayload recovers the confirmation code and event id from a
// scanned payload. Event ids never contain "-" (model.NewEvent rejects
// them), so splitting at the last delimiter is unambiguous even though
// the code itself carries the TKT- prefix.
func ParseQRPayload(payload string) (code, eventID string, err error) {
	if !strings.HasPrefix(payload, qrPrefix) {
		return "", "", ErrBadQRPayload
	}
	rest := payload[len(qrPrefix):]
	i := strings.LastIndex(rest, "-")
	if i <= 0 || i == len(rest)-1 {
		return "", "", ErrBadQRPayload
	}
	code, eventID = rest[:i], rest[i+1:]
	if !strings.HasPrefix(code, codePrefix) {
		return "", "", ErrBadQRPayload
	}
	return code, eventID, nil
}

// IsConfirmationCode reports whether a manually typed reference looks
// like a confirmation code rather than a raw QR payload.
func IsConfirmationCode(ref string) bool {
	return strings.HasPrefix(ref, codePrefix)
}
