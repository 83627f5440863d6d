// Package repository defines the typed data access layer for tickets
// over the document store. The sentinel errors below form the closed
// set of failure conditions higher layers distinguish between; they
// are compared with errors.Is and never inspected by field presence.
package repository

import "errors"

// ErrTicketNotFound is returned when a lookup by confirmation code or
// QR payload matches no ticket.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSeatConflict is returned when ticket creation loses the atomic
// seat claim: another persisted ticket already references one of the
// requested seats for the same event.
var ErrSeatConflict = errors.New("seat no longer available")

// ErrAlreadyRedeemed is returned when redemption targets a ticket whose
// redemption flag is already set. Gate staff must see this as a clear
// "already used" signal, never as a silent success.
var ErrAlreadyRedeemed = errors.New("ticket already redeemed")

// ErrNotEligible is returned when redemption targets a ticket that is
// not yet approved.
var ErrNotEligible = errors.New("ticket not eligible for redemption")

// ErrNotPending is returned when an admin approval or rejection targets
// a ticket that has already left the pending state.
var ErrNotPending = errors.New("ticket is not pending")

// ErrIntegrity is returned when a lookup matches more than one ticket.
// Confirmation codes and QR payloads are unique; multiple matches mean
// the stored data is faulty and must be reported, not resolved by
// picking the first result.
var ErrIntegrity = errors.New("data integrity fault: duplicate tickets for lookup key")
