package ledger

import "errors"

var (
	// ErrNotFound is returned when no entity matches the given id. Lookups
	// never silently no-op; callers can always tell absence from success.
	ErrNotFound = errors.New("not found")

	// ErrVendorInUse blocks vendor deletion while products still reference it.
	ErrVendorInUse = errors.New("vendor is referenced by existing products")

	// ErrValidation wraps input validation failures.
	ErrValidation = errors.New("validation failed")
)
