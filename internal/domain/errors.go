package domain

import "errors"

// Validation and resolution errors. All of these are recoverable and are
// surfaced to the user action that triggered them; none are fatal.
var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidCode     = errors.New("invalid code")
	ErrDuplicateCode   = errors.New("code already exists")
	ErrInvalidValidity = errors.New("validity must be a positive number of minutes")
	ErrNothingToCreate = errors.New("nothing to create")
	ErrNotFound        = errors.New("short link not found")
	ErrExpired         = errors.New("short link expired")

	// ErrCodeSpaceExhausted is returned when repeated attempts to generate
	// a free random code all collided with existing ones.
	ErrCodeSpaceExhausted = errors.New("could not generate a free code")
)

// IsNotFound reports whether err is a not-found resolution failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsExpired reports whether err is an expired resolution failure.
func IsExpired(err error) bool { return errors.Is(err, ErrExpired) }

// IsDuplicate reports whether err indicates a code uniqueness conflict.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicateCode) }
