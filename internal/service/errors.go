package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested object does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when a unique field is already taken.
	ErrExists = errors.New("already exists")
	// ErrBadCredentials is returned on login with an unknown username or a
	// wrong password.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrInactiveUser is returned when an account has not been activated yet.
	ErrInactiveUser = errors.New("user is not active")
	// ErrExpiredKey is returned when a password reset key is too old.
	ErrExpiredKey = errors.New("reset key has expired")
	// ErrUnsupportedFormat is returned for uploads in a format no parser
	// understands.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// wrapNotFound converts the gorm sentinel into the service level one so
// callers never import gorm.
func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
