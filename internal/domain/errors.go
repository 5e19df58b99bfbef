package domain

import "errors"

var (
	// ErrStoreUnavailable covers transport and auth failures reaching the
	// backing store. Retryable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMalformedRow means a slot row's numeric cells could not be parsed.
	// Surfaced as a configuration-integrity failure, never coerced to zero.
	ErrMalformedRow = errors.New("malformed slot row")

	ErrSlotNotFound  = errors.New("slot not found")
	ErrAmbiguousSlot = errors.New("ambiguous slot")

	// ErrOccupancyConflict is returned by conditional occupancy writes when
	// the cell no longer holds the expected value.
	ErrOccupancyConflict = errors.New("occupancy conflict")

	// ErrPartialCommit means the occupancy write committed but the ledger
	// append did not. The store needs manual reconciliation and the caller
	// must not be shown a confirmation.
	ErrPartialCommit = errors.New("partial commit")

	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidPartySize = errors.New("party size must be at least 1")
	ErrMissingContact   = errors.New("missing required contact field")
	ErrNoItemsSelected  = errors.New("no items selected")
	ErrEmptyEmail       = errors.New("email required")
)
