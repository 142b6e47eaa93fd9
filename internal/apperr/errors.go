// Package apperr defines the storefront error taxonomy. Every rejected
// operation wraps one of these types so handlers can map failures to HTTP
// codes with errors.As instead of matching message text.
package apperr

import "fmt"

// ValidationError rejects user input that fails a precondition (blank layout
// name, zero tickets). The operation mutates nothing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// CountMismatchError rejects a checkout whose ticket count does not equal the
// selected seat count. Delta is tickets minus seats, so callers can show the
// exact adjustment needed.
type CountMismatchError struct {
	Tickets int
	Seats   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("ticket count %d does not match %d selected seats", e.Tickets, e.Seats)
}

func (e *CountMismatchError) Delta() int {
	return e.Tickets - e.Seats
}

// NotFoundError reports a missing layout, order, session or profile. Loads
// treat it as fatal to the operation; removals treat absence as a no-op and
// never raise it.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError rejects a write that collides with existing state, such as
// registering an email that already has a profile.
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Reason)
}

// PersistenceError wraps a backing-store failure (read, write, or a document
// that no longer parses). The in-memory working state survives; retrying is
// the caller's call.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s on %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SettlementError reports a failed payment settlement. The checkout session
// stays in the payment state so the user can retry or cancel.
type SettlementError struct {
	Reason string
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed: %s", e.Reason)
}
