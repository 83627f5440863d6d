package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewConfirmationCodeFormat(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	code, err := NewConfirmationCode(now)
	if err != nil {
		t.Fatalf("NewConfirmationCode error = %v", err)
	}
	if !strings.HasPrefix(code, "TKT-") {
		t.Errorf("code %q missing TKT- prefix", code)
	}
	if code != strings.ToUpper(code) {
		t.Errorf("code %q not uppercase", code)
	}
	// Timestamp segment grows monotonically.
	later, err := NewConfirmationCode(now.Add(time.Second))
	if err != nil {
		t.Fatalf("NewConfirmationCode error = %v", err)
	}
	if later[:len(later)-4] <= code[:len(code)-4] {
		t.Errorf("timestamp segment not increasing: %q then %q", code, later)
	}
}

func TestQRPayloadRoundTrip(t *testing.T) {
	payload := BuildQRPayload("TKT-1A2B3C", "recital2026")
	if payload != "TICKET-TKT-1A2B3C-recital2026" {
		t.Fatalf("payload = %q", payload)
	}
	code, eventID, err := ParseQRPayload(payload)
	if err != nil {
		t.Fatalf("ParseQRPayload error = %v", err)
	}
	if code != "TKT-1A2B3C" || eventID != "recital2026" {
		t.Errorf("parsed (%q, %q), want (TKT-1A2B3C, recital2026)", code, eventID)
	}
}

func TestParseQRPayloadRejectsGarbage(t *testing.T) {
	for _, bad := range []string{
		"",
		"TKT-1A2B3C",
		"TICKET-",
		"TICKET-nodash",
		"TICKET-TKT-ABC-",
		"TICKET-ABC-ev1", // code segment lacks the TKT- prefix
	} {
		if _, _, err := ParseQRPayload(bad); !errors.Is(err, ErrBadQRPayload) {
			t.Errorf("ParseQRPayload(%q) error = %v, want ErrBadQRPayload", bad, err)
		}
	}
}

func TestIsConfirmationCode(t *testing.T) {
	if !IsConfirmationCode("TKT-1A2B3C") {
		t.Errorf("TKT-1A2B3C should read as a confirmation code")
	}
	if IsConfirmationCode("TICKET-TKT-1A2B3C-ev") {
		t.Errorf("full payload should not read as a bare code")
	}
}

func TestVerifyPIN(t *testing.T) {
	hash, err := HashPIN("4721", 4)
	if err != nil {
		t.Fatalf("HashPIN error = %v", err)
	}
	if !VerifyPIN(hash, "4721") {
		t.Errorf("correct PIN rejected")
	}
	if VerifyPIN(hash, "0000") {
		t.Errorf("wrong PIN accepted")
	}
}
