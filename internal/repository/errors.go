// Package repository implements all database queries for the portfolio/CMS
// backend. It uses pgx directly (no ORM) for transparency and performance.
package repository

import "errors"

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned when a formation has no remaining seats.
var ErrCapacityExceeded = errors.New("formation is fully booked")

// ErrDuplicateRegistration is returned when the same email registers twice
// for the same formation.
var ErrDuplicateRegistration = errors.New("email already registered for this formation")

// ErrAlreadyCancelled is returned when a cancelled registration is cancelled
// again.
var ErrAlreadyCancelled = errors.New("registration already cancelled")

// ErrEmailMismatch is returned when a cancellation request's email does not
// match the registration's stored email.
var ErrEmailMismatch = errors.New("email does not match registration")

// ErrInvalidToken is returned when a verification token is unknown, expired,
// or already redeemed.
var ErrInvalidToken = errors.New("invalid or expired verification token")

// ErrDuplicateSlug is returned when a project's slug collides with an
// existing one.
var ErrDuplicateSlug = errors.New("slug already in use")
