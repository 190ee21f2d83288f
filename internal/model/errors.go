package model

import "errors"

var (
	// User related errors
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("artist profile not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrUsernameTaken   = errors.New("username already in use")

	// Credential related errors. ErrInvalidCredentials covers both the
	// missing-account and wrong-password cases so login failures are
	// indistinguishable from the outside.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("invalid password")

	// Role transition errors
	ErrAlreadyArtist = errors.New("user is already an artist")
	ErrNotArtist     = errors.New("user is not an artist")

	// Image store errors
	ErrImageUpload = errors.New("image upload failed")
)
