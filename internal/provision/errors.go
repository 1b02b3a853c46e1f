package provision

import "errors"

// Failure classes surfaced by the lifecycle components. Every return site
// wraps one of these (or the underlying OS error) with location context, so
// callers classify with errors.Is.
var (
	ErrInvalidSize           = errors.New("image size must be greater than zero")
	ErrAlreadyMounted        = errors.New("already mounted")
	ErrNotMounted            = errors.New("not mounted")
	ErrSourceNotFound        = errors.New("transfer source not found")
	ErrSourceUnreadable      = errors.New("transfer source not readable")
	ErrDestinationUnwritable = errors.New("transfer destination not writable")
	ErrDiskFull              = errors.New("no space left on image")
)
