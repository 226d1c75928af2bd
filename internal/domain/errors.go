package domain

import "errors"

// Error kinds surfaced by the core. The gateway maps these to status codes;
// nothing in here knows about HTTP.
var (
	// ErrInvalidInput covers malformed target URLs and aliases outside the
	// allowed alphabet or length.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAliasTaken is returned when a user-chosen code already exists.
	// Never retried: the caller picked the conflicting value.
	ErrAliasTaken = errors.New("custom alias already taken")

	// ErrGenerationExhausted means the bounded retry loop ran out of
	// attempts for a system-generated code. Transient; the whole request
	// is safe to retry.
	ErrGenerationExhausted = errors.New("short code generation exhausted")

	// ErrDuplicateCode is the store-level uniqueness violation. The
	// resolver translates it to ErrAliasTaken or a regeneration attempt
	// depending on the creation path.
	ErrDuplicateCode = errors.New("short code already exists")

	// ErrNotFound covers unknown, inactive, and expired codes, and unknown
	// links for analytics lookups.
	ErrNotFound = errors.New("link not found")

	// ErrForbidden is returned when a caller tries to deactivate a link
	// it does not own.
	ErrForbidden = errors.New("not the link owner")

	// ErrStorageUnavailable wraps backend failures that affect correctness.
	// Cache failures never carry it; the cache degrades to a miss instead.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
