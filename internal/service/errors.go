// Package service orchestrates the ticketing workflows: issuance
// (payment capture through persistence and notification) and
// verification/redemption. Failures are classified into the closed
// taxonomy below so the HTTP boundary can map each class to a
// user-facing message without inspecting error internals.
package service

import (
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed customer input. The
// purchase has not started; the user corrects the fields and retries.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid customer data: " + strings.Join(e.Fields, ", ")
}

// PaymentEvidenceError reports a failure capturing payment evidence
// (provider capture or receipt upload). No ticket was created; the
// operation is recoverable.
type PaymentEvidenceError struct {
	Err error
}

func (e *PaymentEvidenceError) Error() string {
	return fmt.Sprintf("payment evidence: %v", e.Err)
}
func (e *PaymentEvidenceError) Unwrap() error { return e.Err }

// PersistenceError reports that the ticket write failed after payment
// was captured. It is fatal to the flow and must be surfaced verbatim
// with a retry path: funds may already have moved, so this class is
// never silently swallowed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting ticket: %v", e.Err)
}
func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError reports a failed confirmation email. The purchase
// is already final; this is logged and surfaced as a warning only.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("sending notification: %v", e.Err)
}
func (e *NotificationError) Unwrap() error { return e.Err }
